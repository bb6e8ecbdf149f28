// Package terminal renders the countdown in a terminal with tcell.
package terminal

import (
	"context"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"countdown/internal/core/input"
	"countdown/internal/core/timer"
	"countdown/internal/ui/display"

	"github.com/gdamore/tcell/v2"
)

// Store is the part of the countdown store the terminal view uses.
type Store interface {
	input.Dispatcher
	Observe(observer timer.Observer) func()
}

type promptKind int

const (
	promptNone promptKind = iota
	promptDuration
	promptStartTime
)

const footerRows = 4

var (
	styleText     = tcell.StyleDefault
	styleDisabled = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePrompt   = tcell.StyleDefault.Bold(true)
)

// App is the terminal front end.
type App struct {
	screen  tcell.Screen
	store   Store
	style   display.Style
	prompt  promptKind
	buffer  []rune
	message string

	styleMu      sync.Mutex
	pendingStyle *display.Style
}

// New creates a terminal front end drawing on an initialized screen.
func New(screen tcell.Screen, store Store, style display.Style) *App {
	return &App{
		screen: screen,
		store:  store,
		style:  style,
	}
}

// Run draws the countdown and handles keys until the user quits or ctx is
// canceled.
func (app *App) Run(ctx context.Context) error {
	detach := app.store.Observe(func(timer.Event) {
		_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer detach()

	stop := context.AfterFunc(ctx, func() {
		_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	app.Draw()
	for {
		event := app.screen.PollEvent()
		switch event := event.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			app.screen.Sync()
		case *tcell.EventKey:
			if app.HandleKey(event) {
				return nil
			}
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		app.Draw()
	}
}

// HandleKey applies one key press. It reports whether the user asked to quit.
func (app *App) HandleKey(event *tcell.EventKey) bool {
	if app.prompt != promptNone {
		app.handlePromptKey(event)
		return false
	}

	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	app.message = ""
	switch event.Rune() {
	case 'q':
		return true
	case 's':
		input.Press(app.store, input.ControlStart)
	case 'x':
		input.Press(app.store, input.ControlStop)
	case 'r':
		input.Press(app.store, input.ControlReset)
	case 'd':
		app.openPrompt(promptDuration)
	case 't':
		app.openPrompt(promptStartTime)
	}
	return false
}

func (app *App) openPrompt(kind promptKind) {
	if !app.store.State().Controls().Submit {
		app.message = input.ErrRunning.Error()
		return
	}
	app.prompt = kind
	app.buffer = app.buffer[:0]
}

func (app *App) handlePromptKey(event *tcell.EventKey) {
	switch event.Key() {
	case tcell.KeyEscape:
		app.prompt = promptNone
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(app.buffer) > 0 {
			app.buffer = app.buffer[:len(app.buffer)-1]
		}
	case tcell.KeyEnter:
		app.submitPrompt()
	case tcell.KeyRune:
		app.buffer = append(app.buffer, event.Rune())
	}
}

func (app *App) submitPrompt() {
	text := string(app.buffer)
	var err error
	switch app.prompt {
	case promptDuration:
		err = input.SubmitDuration(app.store, text)
	case promptStartTime:
		err = input.SubmitStartTime(app.store, text)
	}
	app.prompt = promptNone
	app.buffer = app.buffer[:0]
	if err != nil {
		app.message = err.Error()
		return
	}
	app.message = ""
}

// SetStyle replaces the display style. It may be called from any goroutine;
// the next draw picks it up.
func (app *App) SetStyle(style display.Style) {
	app.styleMu.Lock()
	app.pendingStyle = &style
	app.styleMu.Unlock()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (app *App) adoptStyle() {
	app.styleMu.Lock()
	defer app.styleMu.Unlock()
	if app.pendingStyle != nil {
		app.style = *app.pendingStyle
		app.pendingStyle = nil
	}
}

// Draw renders the current state.
func (app *App) Draw() {
	app.adoptStyle()
	state := app.store.State()
	view := app.style.Render(state)

	app.screen.Clear()
	width, height := app.screen.Size()

	app.drawCircle(view, width, height-footerRows)
	app.drawFooter(view, state.Duration, state.StartTime, width, height)
	app.screen.Show()
}

func (app *App) drawCircle(view display.View, width, rows int) {
	if rows < 1 || width < 1 {
		return
	}
	radiusY := (rows - 1) / 2
	radiusX := radiusY * 2
	if radiusX > (width-1)/2 {
		radiusX = (width - 1) / 2
		radiusY = radiusX / 2
	}
	centerX := width / 2
	centerY := rows / 2

	fill := tcellColor(view.Dimmed())
	circleStyle := tcell.StyleDefault.Background(fill).Foreground(tcell.ColorBlack)

	if radiusY > 0 && radiusX > 0 {
		for y := centerY - radiusY; y <= centerY+radiusY; y++ {
			for x := centerX - radiusX; x <= centerX+radiusX; x++ {
				dx := float64(x-centerX) / float64(radiusX)
				dy := float64(y-centerY) / float64(radiusY)
				if dx*dx+dy*dy <= 1 {
					app.screen.SetContent(x, y, ' ', nil, circleStyle)
				}
			}
		}
	}

	label := view.Label
	drawText(app.screen, centerX-len(label)/2, centerY, circleStyle.Bold(true), label)
}

func (app *App) drawFooter(view display.View, duration, startTime, width, height int) {
	y := height - footerRows
	if y < 0 {
		y = 0
	}

	x := 0
	controls := []struct {
		label   string
		enabled bool
	}{
		{"[s] start", view.Controls.Start},
		{"[x] stop", view.Controls.Stop},
		{"[r] reset", view.Controls.Reset},
		{"[d] duration", view.Controls.Submit},
		{"[t] start time", view.Controls.Submit},
		{"[q] quit", true},
	}
	for _, control := range controls {
		style := styleText
		if !control.enabled {
			style = styleDisabled
		}
		x = drawText(app.screen, x, y, style, control.label) + 2
	}

	status := "stopped"
	if view.Running {
		status = "running"
	} else if view.Done {
		status = "done"
	}
	drawText(app.screen, 0, y+1, styleText,
		strings.Join([]string{status, "duration " + strconv.Itoa(duration) + "ms", "start " + strconv.Itoa(startTime)}, "  "))

	switch app.prompt {
	case promptDuration:
		drawText(app.screen, 0, y+2, stylePrompt, "Duration(ms): "+string(app.buffer)+"_")
	case promptStartTime:
		drawText(app.screen, 0, y+2, stylePrompt, "Start Time(sec): "+string(app.buffer)+"_")
	}
	if app.message != "" {
		drawText(app.screen, 0, y+3, styleError, truncate(app.message, width))
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func tcellColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if width <= 0 || len(runes) <= width {
		return text
	}
	return string(runes[:width])
}
