package tray

import (
	"fmt"

	"countdown/internal/core/model"

	"fyne.io/fyne/v2"
)

// TrayApp is the system tray surface of a desktop.App.
type TrayApp interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStart       func()
	OnStop        func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager keeps the tray menu in step with the countdown.
type Manager struct {
	app        TrayApp
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
	menu       *fyne.Menu
}

// New creates a tray manager and installs its menu.
func New(app TrayApp, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnStart))
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(&manager.callbacks.OnStop))
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset))

	manager.menu = fyne.NewMenu("Countdown",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.stopItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", invoke(&manager.callbacks.OnShow)),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	)
	manager.Update(model.DefaultTimerState())
	return manager
}

// Update refreshes the status line and item enablement for state.
func (manager *Manager) Update(state model.TimerState) {
	controls := state.Controls()
	manager.statusItem.Label = StatusLabel(state)
	manager.startItem.Disabled = !controls.Start
	manager.stopItem.Disabled = !controls.Stop
	manager.resetItem.Disabled = !controls.Reset
	manager.refreshMenu()
}

// Menu returns the installed menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// StatusLabel describes state in one line.
func StatusLabel(state model.TimerState) string {
	switch {
	case state.IsRunning:
		return fmt.Sprintf("Status: %d left", state.CurrentTime)
	case state.IsDone():
		return "Status: done"
	case state.IsResetted():
		return fmt.Sprintf("Status: ready (%d)", state.StartTime)
	default:
		return fmt.Sprintf("Status: stopped at %d", state.CurrentTime)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(manager.menu)
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
