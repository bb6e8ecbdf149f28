package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/core/timer"
	"countdown/internal/ui/display"
	"countdown/internal/ui/preferences"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, initial model.TimerState) (*App, *timer.Store, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 24)
	t.Cleanup(screen.Fini)

	style, err := display.StyleFromSettings(preferences.DefaultSettings())
	require.NoError(t, err)
	store := timer.New(initial)
	return New(screen, store, style), store, screen
}

func screenText(screen tcell.Screen) string {
	width, height := screen.Size()
	var lines []string
	for y := 0; y < height; y++ {
		var line strings.Builder
		for x := 0; x < width; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			line.WriteRune(r)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDrawShowsCountAndControls(t *testing.T) {
	app, _, screen := newTestApp(t, model.DefaultTimerState())

	app.Draw()
	text := screenText(screen)

	assert.Contains(t, text, "10")
	assert.Contains(t, text, "[s] start")
	assert.Contains(t, text, "duration 1000ms")
	assert.Contains(t, text, "stopped")
}

func TestKeysDispatchIntents(t *testing.T) {
	app, store, screen := newTestApp(t, model.DefaultTimerState())

	assert.False(t, app.HandleKey(key('s')))
	require.True(t, store.State().IsRunning)

	store.Apply(timer.Tick())
	app.Draw()
	assert.Contains(t, screenText(screen), "running")

	app.HandleKey(key('x'))
	assert.False(t, store.State().IsRunning)

	app.HandleKey(key('r'))
	assert.Equal(t, 10, store.State().CurrentTime)

	assert.True(t, app.HandleKey(key('q')))
	assert.True(t, app.HandleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
}

func TestPromptSubmitsDuration(t *testing.T) {
	app, store, screen := newTestApp(t, model.TimerState{StartTime: 10, CurrentTime: 4, Duration: 1000})

	app.HandleKey(key('d'))
	for _, r := range "5009" {
		app.HandleKey(key(r))
	}
	app.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	app.Draw()
	assert.Contains(t, screenText(screen), "Duration(ms): 500_")

	app.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Equal(t, model.TimerState{StartTime: 10, CurrentTime: 10, Duration: 500}, store.State())
	assert.Empty(t, app.message)
}

func TestPromptReportsInvalidInput(t *testing.T) {
	initial := model.TimerState{StartTime: 10, CurrentTime: 4, Duration: 1000}
	app, store, screen := newTestApp(t, initial)

	app.HandleKey(key('t'))
	for _, r := range "ten" {
		app.HandleKey(key(r))
	}
	app.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	app.Draw()

	assert.Equal(t, initial, store.State())
	assert.Contains(t, screenText(screen), "not a number")
}

func TestPromptRefusedWhileRunning(t *testing.T) {
	app, _, _ := newTestApp(t, model.TimerState{IsRunning: true, StartTime: 10, CurrentTime: 4, Duration: 1000})

	app.HandleKey(key('d'))

	assert.Equal(t, promptNone, app.prompt)
	assert.Contains(t, app.message, "running")
}

func TestPromptEscapeCancels(t *testing.T) {
	app, _, _ := newTestApp(t, model.DefaultTimerState())

	app.HandleKey(key('d'))
	assert.False(t, app.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Equal(t, promptNone, app.prompt)
}

func TestRunStopsOnCancel(t *testing.T) {
	app, store, _ := newTestApp(t, model.DefaultTimerState())
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() { result <- app.Run(ctx) }()

	store.Apply(timer.Start())
	cancel()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestSetStyleAppliesFromRunLoop(t *testing.T) {
	app, _, screen := newTestApp(t, model.DefaultTimerState())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- app.Run(ctx) }()

	circleBackground := func() (int32, int32, int32) {
		width, height := screen.Size()
		_, _, style, _ := screen.GetContent(width/2-3, (height-footerRows)/2)
		_, bg, _ := style.Decompose()
		return bg.RGB()
	}

	settings := preferences.DefaultSettings()
	settings.Palette = []string{"white"}
	settings.StoppedOpacity = 1
	style, err := display.StyleFromSettings(settings)
	require.NoError(t, err)
	app.SetStyle(style)

	assert.Eventually(t, func() bool {
		r, g, b := circleBackground()
		return r == 0xff && g == 0xff && b == 0xff
	}, 2*time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)
}
