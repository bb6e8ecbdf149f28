package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"countdown/internal/core/input"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	startTime  *widget.Entry
	duration   *widget.Entry
	circleSize *widget.Entry
	chime      *widget.Check
	opacity    *widget.Slider
}

// NewWindow creates a preferences window.
func NewWindow(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Countdown Settings")

	startTime := widget.NewEntry()
	duration := widget.NewEntry()
	circleSize := widget.NewEntry()

	chime := widget.NewCheck("Chime when the countdown finishes", nil)

	opacity := widget.NewSlider(0.1, 1)
	opacity.Step = 0.05

	form := container.NewVBox(
		widget.NewLabelWithStyle("Countdown", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Start time"), startTime, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Tick every"), duration, widget.NewLabel("ms")),
		chime,
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Circle size"), circleSize, widget.NewLabel("px")),
		widget.NewLabel("Opacity while stopped"),
		opacity,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		startTime:  startTime,
		duration:   duration,
		circleSize: circleSize,
		chime:      chime,
		opacity:    opacity,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.startTime.SetText(strconv.Itoa(settings.StartTime))
	prefs.duration.SetText(strconv.Itoa(int(settings.Duration / time.Millisecond)))
	prefs.circleSize.SetText(fmt.Sprintf("%.0f", settings.CircleSize))
	prefs.chime.SetChecked(settings.Chime)
	prefs.opacity.Value = settings.StoppedOpacity
	prefs.opacity.Refresh()
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings
	var errs []error

	if units, err := input.ParseStartTime(prefs.startTime.Text); err != nil {
		errs = append(errs, err)
	} else {
		settings.StartTime = units
	}
	if milliseconds, err := input.ParseDuration(prefs.duration.Text); err != nil {
		errs = append(errs, err)
	} else {
		settings.Duration = time.Duration(milliseconds) * time.Millisecond
	}
	if size, ok := parsePositiveInt(prefs.circleSize.Text); ok {
		settings.CircleSize = float32(size)
	} else {
		errs = append(errs, fmt.Errorf("circle size %q: %w", prefs.circleSize.Text, input.ErrOutOfRange))
	}

	settings.Chime = prefs.chime.Checked
	settings.StoppedOpacity = prefs.opacity.Value

	return settings, errors.Join(errs...)
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
