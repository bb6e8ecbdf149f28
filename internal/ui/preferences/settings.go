package preferences

import (
	"time"

	"countdown/internal/core/model"
)

// DefaultPalette is the circle color cycle, indexed by the remaining count.
var DefaultPalette = []string{"hotpink", "aquamarine", "coral", "cyan"}

// Settings defines editable user preferences.
type Settings struct {
	StartTime int
	Duration  time.Duration
	Chime     bool

	StoppedOpacity float64
	CircleSize     float32
	Palette        []string
}

// DefaultSettings returns default settings for the countdown.
func DefaultSettings() Settings {
	return Settings{
		StartTime:      model.DefaultStartTime,
		Duration:       model.DefaultDuration * time.Millisecond,
		Chime:          true,
		StoppedOpacity: 0.4,
		CircleSize:     400,
		Palette:        append([]string(nil), DefaultPalette...),
	}
}

// TimerState converts settings to the initial countdown state.
func (settings Settings) TimerState() model.TimerState {
	state := model.DefaultTimerState()
	if settings.StartTime >= 0 {
		state.StartTime = settings.StartTime
		state.CurrentTime = settings.StartTime
	}
	if milliseconds := int(settings.Duration / time.Millisecond); milliseconds > 0 {
		state.Duration = milliseconds
	}
	return state
}
