package model

import (
	"math"
	"time"
)

const (
	DefaultStartTime = 10
	DefaultDuration  = 1000
)

// TimerState is the canonical countdown state.
type TimerState struct {
	IsRunning   bool
	StartTime   int
	CurrentTime int
	// Duration is the tick period in milliseconds.
	Duration int
}

// DefaultTimerState returns the state a countdown starts its life with.
func DefaultTimerState() TimerState {
	return TimerState{
		IsRunning:   false,
		StartTime:   DefaultStartTime,
		CurrentTime: DefaultStartTime,
		Duration:    DefaultDuration,
	}
}

// IsResetted reports whether the countdown sits at its configured start.
func (state TimerState) IsResetted() bool {
	return state.CurrentTime == state.StartTime
}

// IsDone reports whether the countdown reached zero.
func (state TimerState) IsDone() bool {
	return state.CurrentTime == 0
}

// Period returns the tick period as a time.Duration. It is zero when
// Duration does not fit.
func (state TimerState) Period() time.Duration {
	if state.Duration <= 0 || int64(state.Duration) > math.MaxInt64/int64(time.Millisecond) {
		return 0
	}
	return time.Duration(state.Duration) * time.Millisecond
}

// Valid reports whether the state satisfies the countdown invariants.
func (state TimerState) Valid() bool {
	if state.StartTime < 0 || state.Duration <= 0 {
		return false
	}
	if state.CurrentTime < 0 || state.CurrentTime > state.StartTime {
		return false
	}
	return !(state.IsDone() && state.IsRunning)
}

// Controls holds the enablement of every user control.
type Controls struct {
	Stop   bool
	Reset  bool
	Start  bool
	Submit bool
}

// Controls derives which user controls are enabled for the state.
func (state TimerState) Controls() Controls {
	return Controls{
		Stop:   state.IsRunning,
		Reset:  !state.IsRunning && !state.IsResetted(),
		Start:  !state.IsRunning && !state.IsDone(),
		Submit: !state.IsRunning,
	}
}
