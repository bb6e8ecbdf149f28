// Package display derives what a front end shows from the countdown state.
package display

import (
	"image/color"
	"strconv"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/ui/preferences"
)

var fallbackPalette = []color.NRGBA{
	{R: 0xff, G: 0x69, B: 0xb4, A: 0xff}, // hotpink
	{R: 0x7f, G: 0xff, B: 0xd4, A: 0xff}, // aquamarine
	{R: 0xff, G: 0x7f, B: 0x50, A: 0xff}, // coral
	{R: 0x00, G: 0xff, B: 0xff, A: 0xff}, // cyan
}

// Style holds the display preferences a front end needs.
type Style struct {
	Palette        []color.NRGBA
	StoppedOpacity float64
}

// StyleFromSettings builds a Style, falling back to the default palette
// when none of the configured entries parse.
func StyleFromSettings(settings preferences.Settings) (Style, error) {
	palette, err := ParsePalette(settings.Palette)
	if len(palette) == 0 {
		palette = fallbackPalette
	}
	opacity := settings.StoppedOpacity
	if opacity <= 0 || opacity > 1 {
		opacity = preferences.DefaultSettings().StoppedOpacity
	}
	return Style{Palette: palette, StoppedOpacity: opacity}, err
}

// View is the presentation of one countdown state.
type View struct {
	Label      string
	Fill       color.NRGBA
	Opacity    float64
	Transition time.Duration
	Controls   model.Controls
	Running    bool
	Done       bool
}

// Render derives the view for state.
func (style Style) Render(state model.TimerState) View {
	palette := style.Palette
	if len(palette) == 0 {
		palette = fallbackPalette
	}
	opacity := 1.0
	if !state.IsRunning {
		opacity = style.StoppedOpacity
	}
	return View{
		Label:      strconv.Itoa(state.CurrentTime),
		Fill:       palette[state.CurrentTime%len(palette)],
		Opacity:    opacity,
		Transition: state.Period(),
		Controls:   state.Controls(),
		Running:    state.IsRunning,
		Done:       state.IsDone(),
	}
}

// Faded returns the fill with the view opacity applied to alpha.
func (view View) Faded() color.NRGBA {
	fill := view.Fill
	fill.A = uint8(float64(fill.A) * view.Opacity)
	return fill
}

// Dimmed returns the fill blended toward black by the view opacity, for
// surfaces without alpha.
func (view View) Dimmed() color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(view.Fill.R) * view.Opacity),
		G: uint8(float64(view.Fill.G) * view.Opacity),
		B: uint8(float64(view.Fill.B) * view.Opacity),
		A: 0xff,
	}
}
