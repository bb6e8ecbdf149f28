package timer

import (
	"time"

	"countdown/internal/core/model"
)

// Event describes one applied transition.
type Event struct {
	Intent   Intent
	Previous model.TimerState
	State    model.TimerState
	At       time.Time
}

// Changed reports whether the transition altered the state.
func (event Event) Changed() bool {
	return event.Previous != event.State
}

// Completed reports whether this transition was the tick that reached zero.
func (event Event) Completed() bool {
	return event.Intent.Kind == KindTick && event.Previous.CurrentTime > 0 && event.State.IsDone()
}

// Observer is notified synchronously after every transition.
type Observer func(Event)
