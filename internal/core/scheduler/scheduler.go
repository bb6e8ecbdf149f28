package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/core/timer"
	"countdown/internal/logfields"
	"countdown/internal/metrics"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Phase is the scheduler state.
type Phase string

const (
	PhaseIdle  Phase = "idle"
	PhaseArmed Phase = "armed"
)

// Status describes the scheduler at a point in time.
type Status struct {
	Phase   Phase
	Period  time.Duration
	Session string
}

// Source is the store the scheduler pumps ticks into.
type Source interface {
	State() model.TimerState
	Observe(observer timer.Observer) func()
	ApplyContext(ctx context.Context, intent timer.Intent) (model.TimerState, bool)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock that provides tickers.
func WithClock(clock clockwork.Clock) Option {
	return func(scheduler *Scheduler) {
		if clock != nil {
			scheduler.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(scheduler *Scheduler) {
		if logger != nil {
			scheduler.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(scheduler *Scheduler) {
		if recorder != nil {
			scheduler.recorder = recorder
		}
	}
}

type session struct {
	id     string
	period time.Duration
	ticker clockwork.Ticker
	cancel context.CancelFunc
}

// Scheduler turns the store's running flag and duration into a periodic
// stream of tick intents. It holds at most one active session.
type Scheduler struct {
	mu       sync.Mutex
	source   Source
	clock    clockwork.Clock
	logger   *slog.Logger
	recorder metrics.Recorder
	active   *session
	detach   func()
	closed   bool
	wg       sync.WaitGroup
}

// Attach creates a scheduler observing source and syncs it with the
// current state.
func Attach(source Source, options ...Option) *Scheduler {
	scheduler := &Scheduler{
		source:   source,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, option := range options {
		option(scheduler)
	}

	scheduler.detach = source.Observe(scheduler.handleEvent)
	scheduler.Observe(source.State())
	return scheduler
}

func (scheduler *Scheduler) handleEvent(event timer.Event) {
	scheduler.Observe(event.State)
}

// Observe reconciles the active session with state. Cancellation happens
// before Observe returns.
func (scheduler *Scheduler) Observe(state model.TimerState) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.closed {
		return
	}

	if !state.IsRunning || state.Period() <= 0 {
		scheduler.disarmLocked()
		return
	}

	period := state.Period()
	if scheduler.active != nil {
		if scheduler.active.period == period {
			return
		}
		scheduler.disarmLocked()
	}
	scheduler.armLocked(period)
}

// Status returns the current phase and session.
func (scheduler *Scheduler) Status() Status {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.active == nil {
		return Status{Phase: PhaseIdle}
	}
	return Status{
		Phase:   PhaseArmed,
		Period:  scheduler.active.period,
		Session: scheduler.active.id,
	}
}

// Close detaches from the store, cancels the active session and waits for
// its pump to exit. It must not be called from a store observer.
func (scheduler *Scheduler) Close() {
	scheduler.mu.Lock()
	if scheduler.closed {
		scheduler.mu.Unlock()
		return
	}
	scheduler.closed = true
	if scheduler.detach != nil {
		scheduler.detach()
	}
	scheduler.disarmLocked()
	scheduler.mu.Unlock()

	scheduler.wg.Wait()
}

func (scheduler *Scheduler) armLocked(period time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	active := &session{
		id:     uuid.NewString(),
		period: period,
		ticker: scheduler.clock.NewTicker(period),
		cancel: cancel,
	}
	scheduler.active = active
	scheduler.recorder.IncSchedulerArm()
	scheduler.logger.Debug("tick session armed",
		logfields.Session(active.id),
		logfields.PeriodMS(period.Milliseconds()))

	scheduler.wg.Add(1)
	go scheduler.pump(ctx, active)
}

func (scheduler *Scheduler) disarmLocked() {
	active := scheduler.active
	if active == nil {
		return
	}
	scheduler.active = nil
	active.cancel()
	active.ticker.Stop()
	scheduler.recorder.IncSchedulerDisarm()
	scheduler.logger.Debug("tick session canceled", logfields.Session(active.id))
}

func (scheduler *Scheduler) pump(ctx context.Context, active *session) {
	defer scheduler.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-active.ticker.Chan():
			if _, applied := scheduler.source.ApplyContext(ctx, timer.Tick()); !applied {
				scheduler.recorder.IncDroppedTick()
				return
			}
		}
	}
}
