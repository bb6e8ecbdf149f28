package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"countdown/internal/core/input"
	"countdown/internal/core/scheduler"
	"countdown/internal/core/timer"
	"countdown/internal/logfields"
	"countdown/internal/metrics"
	"countdown/internal/ui/preferences"

	"github.com/jonboulle/clockwork"
)

// Player plays the completion sound.
type Player interface {
	Play()
}

// Options configures a Runtime.
type Options struct {
	Settings preferences.Settings
	Clock    clockwork.Clock
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Player is used when Settings.Chime is set. Nil disables the chime.
	Player Player
}

// Runtime wires the countdown store to its scheduler and observers.
type Runtime struct {
	Store     *timer.Store
	Scheduler *scheduler.Scheduler

	logger   *slog.Logger
	recorder metrics.Recorder

	mu       sync.Mutex
	settings preferences.Settings
	player   Player

	detach    []func()
	closeOnce sync.Once
}

// New builds the store and scheduler from options.
func New(options Options) *Runtime {
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Recorder == nil {
		options.Recorder = metrics.NoopRecorder{}
	}

	initial := options.Settings.TimerState()
	runtime := &Runtime{
		Store:    timer.New(initial, timer.WithClock(options.Clock)),
		logger:   options.Logger,
		recorder: options.Recorder,
		settings: options.Settings,
		player:   options.Player,
	}
	runtime.recorder.SetCurrentTime(initial.CurrentTime)
	runtime.recorder.SetRunning(initial.IsRunning)

	runtime.detach = append(runtime.detach, runtime.Store.Observe(runtime.observe))
	runtime.Scheduler = scheduler.Attach(runtime.Store,
		scheduler.WithClock(options.Clock),
		scheduler.WithLogger(options.Logger),
		scheduler.WithRecorder(options.Recorder),
	)
	return runtime
}

func (runtime *Runtime) observe(event timer.Event) {
	runtime.recorder.IncIntent(string(event.Intent.Kind))
	runtime.recorder.SetCurrentTime(event.State.CurrentTime)
	runtime.recorder.SetRunning(event.State.IsRunning)

	runtime.logger.Debug("transition",
		logfields.Intent(event.Intent.String()),
		logfields.CurrentTime(event.State.CurrentTime),
		logfields.Running(event.State.IsRunning))

	if event.Completed() {
		runtime.logger.Info("countdown finished", logfields.StartTime(event.State.StartTime))
		runtime.mu.Lock()
		player := runtime.player
		chime := runtime.settings.Chime
		runtime.mu.Unlock()
		if chime && player != nil {
			player.Play()
		}
	}
}

// Settings returns the settings last applied.
func (runtime *Runtime) Settings() preferences.Settings {
	runtime.mu.Lock()
	defer runtime.mu.Unlock()
	return runtime.settings
}

// ApplySettings adopts new settings. A changed start time or duration goes
// through the same boundary as the forms, so it is refused while running.
func (runtime *Runtime) ApplySettings(settings preferences.Settings) error {
	runtime.mu.Lock()
	runtime.settings = settings
	runtime.mu.Unlock()

	next := settings.TimerState()
	current := runtime.Store.State()
	var errs []error
	if next.Duration != current.Duration {
		if err := input.ApplyDuration(runtime.Store, next.Duration); err != nil {
			errs = append(errs, err)
		}
	}
	if next.StartTime != current.StartTime {
		if err := input.ApplyStartTime(runtime.Store, next.StartTime); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		runtime.logger.Warn("settings not applied to countdown", logfields.Error(err))
	}
	return err
}

// RunHeadless starts the countdown and blocks until it finishes or ctx is
// canceled. Cancellation stops the countdown.
func (runtime *Runtime) RunHeadless(ctx context.Context) error {
	finished := make(chan struct{})
	var once sync.Once
	detach := runtime.Store.Observe(func(event timer.Event) {
		if event.State.IsDone() && !event.State.IsRunning {
			once.Do(func() { close(finished) })
		}
	})
	defer detach()

	if runtime.Store.State().IsDone() {
		return nil
	}
	input.Press(runtime.Store, input.ControlStart)

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		runtime.Store.Apply(timer.Stop())
		return ctx.Err()
	}
}

// Close stops ticking before disposing of the store.
func (runtime *Runtime) Close() {
	runtime.closeOnce.Do(func() {
		runtime.Scheduler.Close()
		for i := len(runtime.detach) - 1; i >= 0; i-- {
			runtime.detach[i]()
		}
		runtime.Store.Close()
	})
}
