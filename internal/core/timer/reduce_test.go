package timer

import (
	"testing"

	"countdown/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStates() []model.TimerState {
	var states []model.TimerState
	for _, running := range []bool{false, true} {
		for start := 0; start <= 3; start++ {
			for current := 0; current <= start; current++ {
				state := model.TimerState{IsRunning: running, StartTime: start, CurrentTime: current, Duration: 250}
				if state.Valid() {
					states = append(states, state)
				}
			}
		}
	}
	return states
}

func TestTickKeepsBounds(t *testing.T) {
	for _, state := range sampleStates() {
		next := Reduce(state, Tick())
		assert.GreaterOrEqual(t, next.CurrentTime, 0, "%+v", state)
		assert.LessOrEqual(t, next.CurrentTime, next.StartTime, "%+v", state)
		assert.True(t, next.Valid(), "%+v", state)
	}
}

func TestStartWhenDoneIsNoop(t *testing.T) {
	state := Reduce(model.DefaultTimerState(), SetStartTime(0))
	next := Reduce(state, Start())

	assert.Equal(t, state, next)
	assert.False(t, next.IsRunning)
	assert.True(t, next.Valid())
}

func TestTickAtZeroIsNoop(t *testing.T) {
	state := model.TimerState{StartTime: 10, CurrentTime: 0, Duration: 1000}
	assert.Equal(t, state, Reduce(state, Tick()))
}

func TestTickReachingZeroStops(t *testing.T) {
	state := model.TimerState{IsRunning: true, StartTime: 10, CurrentTime: 1, Duration: 1000}
	next := Reduce(state, Tick())
	assert.Equal(t, 0, next.CurrentTime)
	assert.False(t, next.IsRunning)
}

func TestResetFromAnyState(t *testing.T) {
	for _, state := range sampleStates() {
		next := Reduce(state, Reset())
		assert.Equal(t, next.StartTime, next.CurrentTime)
		assert.False(t, next.IsRunning)
		assert.Equal(t, state.Duration, next.Duration)
	}
}

func TestSetStartTimeThenResetMatchesSetStartTime(t *testing.T) {
	for _, state := range sampleStates() {
		alone := Reduce(state, SetStartTime(7))
		withReset := Reduce(alone, Reset())
		assert.Equal(t, 7, alone.CurrentTime)
		assert.Equal(t, 7, alone.StartTime)
		assert.Equal(t, alone.CurrentTime, withReset.CurrentTime)
		assert.Equal(t, alone.StartTime, withReset.StartTime)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	state := model.DefaultTimerState()
	once := Reduce(state, Start())
	assert.Equal(t, once, Reduce(once, Start()))

	stopped := Reduce(once, Stop())
	assert.Equal(t, stopped, Reduce(stopped, Stop()))
}

func TestInvalidPayloadsIgnored(t *testing.T) {
	state := model.DefaultTimerState()
	assert.Equal(t, state, Reduce(state, SetDuration(0)))
	assert.Equal(t, state, Reduce(state, SetDuration(-5)))
	assert.Equal(t, state, Reduce(state, SetStartTime(-1)))
	assert.Equal(t, state, Reduce(state, Intent{Kind: "bogus"}))
}

func TestScenarioCountdownToZero(t *testing.T) {
	state := model.DefaultTimerState()

	state = Reduce(state, Start())
	require.True(t, state.IsRunning)

	for i := 0; i < 9; i++ {
		state = Reduce(state, Tick())
	}
	assert.Equal(t, 1, state.CurrentTime)
	assert.True(t, state.IsRunning)

	state = Reduce(state, Tick())
	assert.Equal(t, 0, state.CurrentTime)
	assert.False(t, state.IsRunning)
	assert.False(t, state.Controls().Start)
}

func TestScenarioStopMidway(t *testing.T) {
	state := model.TimerState{IsRunning: true, StartTime: 10, CurrentTime: 5, Duration: 1000}
	state = Reduce(state, Stop())
	assert.False(t, state.IsRunning)
	assert.Equal(t, 5, state.CurrentTime)
}

func TestScenarioSetDurationWhileStopped(t *testing.T) {
	state := model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000}
	next := Reduce(state, SetDuration(500))

	assert.Equal(t, 500, next.Duration)
	assert.Equal(t, state.CurrentTime, next.CurrentTime)
	assert.Equal(t, state.StartTime, next.StartTime)
	assert.Equal(t, state.IsResetted(), next.IsResetted())
}

func TestScenarioSetStartTimeRealigns(t *testing.T) {
	state := model.TimerState{StartTime: 10, CurrentTime: 3, Duration: 1000}
	next := Reduce(state, SetStartTime(20))
	assert.Equal(t, 20, next.StartTime)
	assert.Equal(t, 20, next.CurrentTime)
}

func TestDerivedFlags(t *testing.T) {
	done := model.TimerState{StartTime: 10, CurrentTime: 0, Duration: 1000}
	assert.True(t, done.IsDone())
	assert.False(t, done.Controls().Start)

	resetted := model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 1000}
	assert.True(t, resetted.IsResetted())
	assert.False(t, resetted.Controls().Reset)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "tick", Tick().String())
	assert.Equal(t, "set_duration(500)", SetDuration(500).String())
	assert.Equal(t, "set_start_time(20)", SetStartTime(20).String())
}
