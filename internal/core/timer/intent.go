package timer

import "fmt"

// Kind names a countdown intent.
type Kind string

const (
	KindReset        Kind = "reset"
	KindStart        Kind = "start"
	KindStop         Kind = "stop"
	KindTick         Kind = "tick"
	KindSetDuration  Kind = "set_duration"
	KindSetStartTime Kind = "set_start_time"
)

// Intent is a request to transition the countdown state.
// Value is only meaningful for the parametric kinds.
type Intent struct {
	Kind  Kind
	Value int
}

// Reset realigns the countdown with its start time and stops it.
func Reset() Intent { return Intent{Kind: KindReset} }

// Start resumes counting.
func Start() Intent { return Intent{Kind: KindStart} }

// Stop pauses counting.
func Stop() Intent { return Intent{Kind: KindStop} }

// Tick decrements the countdown by one.
func Tick() Intent { return Intent{Kind: KindTick} }

// SetDuration sets the tick period in milliseconds.
func SetDuration(milliseconds int) Intent {
	return Intent{Kind: KindSetDuration, Value: milliseconds}
}

// SetStartTime sets the countdown length and realigns the current time.
func SetStartTime(units int) Intent {
	return Intent{Kind: KindSetStartTime, Value: units}
}

func (intent Intent) String() string {
	switch intent.Kind {
	case KindSetDuration, KindSetStartTime:
		return fmt.Sprintf("%s(%d)", intent.Kind, intent.Value)
	default:
		return string(intent.Kind)
	}
}
