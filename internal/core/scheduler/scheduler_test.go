package scheduler

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/core/timer"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type countingRecorder struct {
	arms    atomic.Int64
	disarms atomic.Int64
	dropped atomic.Int64
}

func (r *countingRecorder) IncIntent(string)    {}
func (r *countingRecorder) IncDroppedTick()     { r.dropped.Add(1) }
func (r *countingRecorder) IncSchedulerArm()    { r.arms.Add(1) }
func (r *countingRecorder) IncSchedulerDisarm() { r.disarms.Add(1) }
func (r *countingRecorder) SetCurrentTime(int)  {}
func (r *countingRecorder) SetRunning(bool)     {}

func newHarness(t *testing.T, initial model.TimerState) (*timer.Store, *Scheduler, *clockwork.FakeClock, *countingRecorder) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	recorder := &countingRecorder{}
	store := timer.New(initial, timer.WithClock(clock))
	scheduler := Attach(store, WithClock(clock), WithRecorder(recorder))
	t.Cleanup(func() {
		scheduler.Close()
		store.Close()
	})
	return store, scheduler, clock, recorder
}

func advanceAndWait(t *testing.T, store *timer.Store, clock *clockwork.FakeClock, period time.Duration, want int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(period)
	require.Eventually(t, func() bool {
		return store.State().CurrentTime == want
	}, waitFor, time.Millisecond)
}

func TestSchedulerStartsIdle(t *testing.T) {
	_, scheduler, _, recorder := newHarness(t, model.DefaultTimerState())

	assert.Equal(t, Status{Phase: PhaseIdle}, scheduler.Status())
	assert.Zero(t, recorder.arms.Load())
}

func TestSchedulerCountsDownToZero(t *testing.T) {
	store, scheduler, clock, _ := newHarness(t, model.TimerState{StartTime: 3, CurrentTime: 3, Duration: 1000})

	store.Apply(timer.Start())
	status := scheduler.Status()
	require.Equal(t, PhaseArmed, status.Phase)
	assert.Equal(t, time.Second, status.Period)
	assert.NotEmpty(t, status.Session)

	advanceAndWait(t, store, clock, time.Second, 2)
	advanceAndWait(t, store, clock, time.Second, 1)
	assert.True(t, store.State().IsRunning)
	advanceAndWait(t, store, clock, time.Second, 0)

	assert.False(t, store.State().IsRunning)
	assert.Equal(t, PhaseIdle, scheduler.Status().Phase)
}

func TestSchedulerStopCancelsSession(t *testing.T) {
	store, scheduler, clock, recorder := newHarness(t, model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000})

	store.Apply(timer.Start())
	advanceAndWait(t, store, clock, time.Second, 9)

	store.Apply(timer.Stop())
	assert.Equal(t, PhaseIdle, scheduler.Status().Phase)
	assert.Equal(t, int64(1), recorder.disarms.Load())

	clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 9, store.State().CurrentTime)
	assert.False(t, store.State().IsRunning)
}

func TestSchedulerRearmsOnDurationChange(t *testing.T) {
	store, scheduler, clock, recorder := newHarness(t, model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000})

	store.Apply(timer.Start())
	first := scheduler.Status()

	store.Apply(timer.SetDuration(500))
	second := scheduler.Status()

	require.Equal(t, PhaseArmed, second.Phase)
	assert.Equal(t, 500*time.Millisecond, second.Period)
	assert.NotEqual(t, first.Session, second.Session)
	assert.Equal(t, int64(2), recorder.arms.Load())
	assert.Equal(t, int64(1), recorder.disarms.Load())

	advanceAndWait(t, store, clock, 500*time.Millisecond, 9)
}

func TestSchedulerIgnoresUnchangedRunningState(t *testing.T) {
	store, scheduler, _, recorder := newHarness(t, model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000})

	store.Apply(timer.Start())
	first := scheduler.Status()
	store.Apply(timer.Start())
	store.Apply(timer.SetDuration(1000))

	assert.Equal(t, first, scheduler.Status())
	assert.Equal(t, int64(1), recorder.arms.Load())
}

func TestSchedulerStaysIdleWhenStartedAtZero(t *testing.T) {
	store, scheduler, _, recorder := newHarness(t, model.DefaultTimerState())

	store.Apply(timer.SetStartTime(0))
	store.Apply(timer.Start())

	assert.True(t, store.State().Valid())
	assert.Equal(t, Status{Phase: PhaseIdle}, scheduler.Status())
	assert.Zero(t, recorder.arms.Load())
}

func TestSchedulerIgnoresOversizedDuration(t *testing.T) {
	store, scheduler, _, recorder := newHarness(t, model.DefaultTimerState())

	store.Apply(timer.SetDuration(math.MaxInt))
	require.NotPanics(t, func() { store.Apply(timer.Start()) })

	assert.True(t, store.State().IsRunning)
	assert.Equal(t, Status{Phase: PhaseIdle}, scheduler.Status())
	assert.Zero(t, recorder.arms.Load())

	store.Apply(timer.SetDuration(1000))
	assert.Equal(t, PhaseArmed, scheduler.Status().Phase)
}

type gatedSource struct {
	*timer.Store
	entered chan struct{}
	release chan struct{}
}

func (source *gatedSource) ApplyContext(ctx context.Context, intent timer.Intent) (model.TimerState, bool) {
	source.entered <- struct{}{}
	<-source.release
	return source.Store.ApplyContext(ctx, intent)
}

func TestSchedulerDropsTickInFlightAtStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	recorder := &countingRecorder{}
	store := timer.New(model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000})
	source := &gatedSource{Store: store, entered: make(chan struct{}, 1), release: make(chan struct{})}
	scheduler := Attach(source, WithClock(clock), WithRecorder(recorder))
	defer store.Close()

	store.Apply(timer.Start())
	clock.Advance(time.Second)

	select {
	case <-source.entered:
	case <-time.After(waitFor):
		t.Fatal("tick was not emitted")
	}

	store.Apply(timer.Stop())
	close(source.release)
	scheduler.Close()

	assert.Equal(t, 10, store.State().CurrentTime)
	assert.Equal(t, int64(1), recorder.dropped.Load())
}

func TestSchedulerCloseCancelsAndDetaches(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := timer.New(model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000})
	scheduler := Attach(store, WithClock(clock))

	store.Apply(timer.Start())
	require.Equal(t, PhaseArmed, scheduler.Status().Phase)

	scheduler.Close()
	scheduler.Close()
	assert.Equal(t, PhaseIdle, scheduler.Status().Phase)

	store.Apply(timer.Stop())
	store.Apply(timer.Start())
	assert.Equal(t, PhaseIdle, scheduler.Status().Phase)

	clock.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 10, store.State().CurrentTime)
}

func TestAttachArmsWhenAlreadyRunning(t *testing.T) {
	_, scheduler, _, _ := newHarness(t, model.TimerState{IsRunning: true, StartTime: 5, CurrentTime: 5, Duration: 250})

	status := scheduler.Status()
	assert.Equal(t, PhaseArmed, status.Phase)
	assert.Equal(t, 250*time.Millisecond, status.Period)
}
