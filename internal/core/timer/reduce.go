package timer

import "countdown/internal/core/model"

// Reduce applies an intent to a state and returns the next state.
// It is total: payloads that would break the invariants leave the state unchanged.
func Reduce(state model.TimerState, intent Intent) model.TimerState {
	switch intent.Kind {
	case KindReset:
		state.CurrentTime = state.StartTime
		state.IsRunning = false
	case KindStart:
		if !state.IsDone() {
			state.IsRunning = true
		}
	case KindStop:
		state.IsRunning = false
	case KindTick:
		if state.CurrentTime > 0 {
			state.CurrentTime--
			if state.CurrentTime == 0 {
				state.IsRunning = false
			}
		}
	case KindSetDuration:
		if intent.Value > 0 {
			state.Duration = intent.Value
		}
	case KindSetStartTime:
		if intent.Value >= 0 {
			state.StartTime = intent.Value
			state.CurrentTime = intent.Value
		}
	}
	return state
}
