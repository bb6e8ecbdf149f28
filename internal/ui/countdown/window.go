package countdown

import (
	"image/color"
	"strconv"

	"countdown/internal/core/input"
	"countdown/internal/core/model"
	"countdown/internal/core/timer"
	"countdown/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Store is the part of the countdown store the window uses.
type Store interface {
	input.Dispatcher
	Observe(observer timer.Observer) func()
}

// Config defines window visuals.
type Config struct {
	Title      string
	CircleSize float32
	Style      display.Style
}

// Window shows the countdown circle and its controls.
type Window struct {
	window    fyne.Window
	store     Store
	config    Config
	circle    *canvas.Circle
	timeLabel *canvas.Text
	frame     *fyne.Container

	stopButton  *widget.Button
	resetButton *widget.Button
	startButton *widget.Button

	durationEntry  *widget.Entry
	durationSubmit *widget.Button
	startEntry     *widget.Entry
	startSubmit    *widget.Button

	fill      color.NRGBA
	animation *fyne.Animation
	detach    func()
}

// New creates the countdown window and subscribes it to store.
func New(app fyne.App, store Store, config Config) *Window {
	if config.Title == "" {
		config.Title = "Countdown"
	}
	if config.CircleSize <= 0 {
		config.CircleSize = 400
	}

	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	state := store.State()

	circle := canvas.NewCircle(color.Transparent)
	circle.StrokeColor = color.NRGBA{A: 0x80}
	circle.StrokeWidth = 1

	timeLabel := canvas.NewText("", color.Black)
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true}
	timeLabel.TextSize = 32

	frame := container.NewGridWrap(
		fyne.NewSize(config.CircleSize, config.CircleSize),
		container.NewStack(circle, container.NewCenter(timeLabel)),
	)

	cw := &Window{
		window:        window,
		store:         store,
		config:        config,
		circle:        circle,
		timeLabel:     timeLabel,
		frame:         frame,
		durationEntry: widget.NewEntry(),
		startEntry:    widget.NewEntry(),
	}

	cw.stopButton = widget.NewButton("Stop", func() { input.Press(store, input.ControlStop) })
	cw.resetButton = widget.NewButton("Reset", func() { input.Press(store, input.ControlReset) })
	cw.startButton = widget.NewButton("Start", func() { input.Press(store, input.ControlStart) })

	cw.durationEntry.SetText(strconv.Itoa(state.Duration))
	cw.startEntry.SetText(strconv.Itoa(state.StartTime))
	cw.durationSubmit = widget.NewButton("Set", cw.submitDuration)
	cw.startSubmit = widget.NewButton("Set", cw.submitStartTime)
	cw.durationEntry.OnSubmitted = func(string) { cw.submitDuration() }
	cw.startEntry.OnSubmitted = func(string) { cw.submitStartTime() }

	forms := container.New(layout.NewFormLayout(),
		widget.NewLabel("Duration(ms)"), container.NewBorder(nil, nil, nil, cw.durationSubmit, cw.durationEntry),
		widget.NewLabel("Start Time(sec)"), container.NewBorder(nil, nil, nil, cw.startSubmit, cw.startEntry),
	)

	content := container.NewVBox(
		container.NewCenter(frame),
		cw.stopButton,
		cw.resetButton,
		cw.startButton,
		forms,
	)
	window.SetContent(container.NewPadded(content))

	cw.render(state, false)
	cw.detach = store.Observe(func(event timer.Event) {
		fyne.Do(func() {
			cw.render(event.State, true)
		})
	})

	return cw
}

// Show displays the window.
func (cw *Window) Show() {
	cw.window.Show()
	cw.window.RequestFocus()
}

// Hide hides the window.
func (cw *Window) Hide() {
	cw.window.Hide()
}

// SetCloseIntercept replaces the default close behavior.
func (cw *Window) SetCloseIntercept(handler func()) {
	cw.window.SetCloseIntercept(handler)
}

// UpdateConfig applies new visuals and re-renders.
func (cw *Window) UpdateConfig(config Config) {
	if config.Title == "" {
		config.Title = cw.config.Title
	}
	if config.CircleSize <= 0 {
		config.CircleSize = cw.config.CircleSize
	}
	cw.config = config
	cw.window.SetTitle(config.Title)
	cw.frame.Layout = layout.NewGridWrapLayout(fyne.NewSize(config.CircleSize, config.CircleSize))
	cw.frame.Refresh()
	cw.render(cw.store.State(), false)
}

// Close detaches from the store and closes the window.
func (cw *Window) Close() {
	if cw.detach != nil {
		cw.detach()
		cw.detach = nil
	}
	cw.stopAnimation()
	cw.window.Close()
}

func (cw *Window) submitDuration() {
	if err := input.SubmitDuration(cw.store, cw.durationEntry.Text); err != nil {
		dialog.ShowError(err, cw.window)
	}
}

func (cw *Window) submitStartTime() {
	if err := input.SubmitStartTime(cw.store, cw.startEntry.Text); err != nil {
		dialog.ShowError(err, cw.window)
	}
}

func (cw *Window) render(state model.TimerState, animate bool) {
	view := cw.config.Style.Render(state)

	cw.timeLabel.Text = view.Label
	cw.timeLabel.Refresh()
	cw.paint(view, animate)

	setEnabled(cw.stopButton, view.Controls.Stop)
	setEnabled(cw.resetButton, view.Controls.Reset)
	setEnabled(cw.startButton, view.Controls.Start)
	setEnabled(cw.durationSubmit, view.Controls.Submit)
	setEnabled(cw.startSubmit, view.Controls.Submit)
}

func (cw *Window) paint(view display.View, animate bool) {
	target := view.Faded()
	if target == cw.fill {
		return
	}
	cw.stopAnimation()

	if !animate || view.Transition <= 0 {
		cw.fill = target
		cw.circle.FillColor = target
		cw.circle.Refresh()
		return
	}

	start := cw.fill
	cw.fill = target
	cw.animation = canvas.NewColorRGBAAnimation(start, target, view.Transition, func(c color.Color) {
		cw.circle.FillColor = c
		cw.circle.Refresh()
	})
	cw.animation.Start()
}

func (cw *Window) stopAnimation() {
	if cw.animation != nil {
		cw.animation.Stop()
		cw.animation = nil
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
