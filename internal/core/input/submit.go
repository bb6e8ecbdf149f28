package input

import (
	"errors"
	"fmt"

	"countdown/internal/core/model"
	"countdown/internal/core/timer"
)

// ErrRunning indicates a submission attempted while the countdown runs.
var ErrRunning = errors.New("countdown is running")

// Dispatcher is the part of the store the boundary needs.
type Dispatcher interface {
	State() model.TimerState
	Apply(intent timer.Intent) model.TimerState
}

// Control names a push-button control.
type Control string

const (
	ControlStart Control = "start"
	ControlStop  Control = "stop"
	ControlReset Control = "reset"
)

// SubmitDuration parses text and, when accepted, sets the duration and
// resets the countdown. State is left unchanged on error.
func SubmitDuration(dispatcher Dispatcher, text string) error {
	if dispatcher.State().IsRunning {
		return fmt.Errorf("set duration: %w", ErrRunning)
	}
	milliseconds, err := ParseDuration(text)
	if err != nil {
		return err
	}
	return ApplyDuration(dispatcher, milliseconds)
}

// ApplyDuration sets an already parsed duration and resets the countdown.
func ApplyDuration(dispatcher Dispatcher, milliseconds int) error {
	if dispatcher.State().IsRunning {
		return fmt.Errorf("set duration: %w", ErrRunning)
	}
	if milliseconds <= 0 {
		return fmt.Errorf("duration %d: %w", milliseconds, ErrOutOfRange)
	}
	dispatcher.Apply(timer.SetDuration(milliseconds))
	dispatcher.Apply(timer.Reset())
	return nil
}

// SubmitStartTime parses text and, when accepted, sets the start time and
// resets the countdown. State is left unchanged on error.
func SubmitStartTime(dispatcher Dispatcher, text string) error {
	if dispatcher.State().IsRunning {
		return fmt.Errorf("set start time: %w", ErrRunning)
	}
	units, err := ParseStartTime(text)
	if err != nil {
		return err
	}
	return ApplyStartTime(dispatcher, units)
}

// ApplyStartTime sets an already parsed start time and resets the countdown.
func ApplyStartTime(dispatcher Dispatcher, units int) error {
	if dispatcher.State().IsRunning {
		return fmt.Errorf("set start time: %w", ErrRunning)
	}
	if units < 0 {
		return fmt.Errorf("start time %d: %w", units, ErrOutOfRange)
	}
	dispatcher.Apply(timer.SetStartTime(units))
	dispatcher.Apply(timer.Reset())
	return nil
}

// Press dispatches the intent behind control if the control is enabled.
// It reports whether anything was dispatched.
func Press(dispatcher Dispatcher, control Control) bool {
	controls := dispatcher.State().Controls()
	switch control {
	case ControlStart:
		if controls.Start {
			dispatcher.Apply(timer.Start())
			return true
		}
	case ControlStop:
		if controls.Stop {
			dispatcher.Apply(timer.Stop())
			return true
		}
	case ControlReset:
		if controls.Reset {
			dispatcher.Apply(timer.Reset())
			return true
		}
	}
	return false
}
