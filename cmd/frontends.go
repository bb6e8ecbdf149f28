package main

import (
	"context"
	"fmt"
	"log/slog"

	"countdown/internal/app"
	"countdown/internal/core/input"
	"countdown/internal/core/timer"
	"countdown/internal/logfields"
	"countdown/internal/platform"
	"countdown/internal/storage"
	"countdown/internal/ui/countdown"
	"countdown/internal/ui/display"
	"countdown/internal/ui/preferences"
	"countdown/internal/ui/terminal"
	"countdown/internal/ui/tray"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/gdamore/tcell/v2"
)

func runTerminal(ctx context.Context, runtime *app.Runtime, autostart bool, hooks *settingsHooks, logger *slog.Logger) error {
	style, err := display.StyleFromSettings(runtime.Settings())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal screen: %w", err)
	}
	defer screen.Fini()

	view := terminal.New(screen, runtime.Store, style)
	hooks.add(func(updated preferences.Settings) {
		updatedStyle, err := display.StyleFromSettings(updated)
		if err != nil {
			logger.Warn("display settings ignored", logfields.Error(err))
			return
		}
		view.SetStyle(updatedStyle)
	})

	if autostart {
		input.Press(runtime.Store, input.ControlStart)
	}
	return view.Run(ctx)
}

func runDesktop(ctx context.Context, runtime *app.Runtime, configPath string, autostart bool, hooks *settingsHooks, logger *slog.Logger) error {
	guard, err := platform.Lock(appName)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	settings := runtime.Settings()
	style, err := display.StyleFromSettings(settings)
	if err != nil {
		return err
	}

	fyneApp := fyneapp.NewWithID("com.countdown.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	window := countdown.New(fyneApp, runtime.Store, countdown.Config{
		CircleSize: settings.CircleSize,
		Style:      style,
	})

	applyVisuals := func(updated preferences.Settings) {
		updatedStyle, err := display.StyleFromSettings(updated)
		if err != nil {
			logger.Warn("display settings ignored", logfields.Error(err))
			return
		}
		window.UpdateConfig(countdown.Config{CircleSize: updated.CircleSize, Style: updatedStyle})
	}

	prefsWindow := preferences.NewWindow(fyneApp, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(configPath, updated); err != nil {
			logger.Error("save settings", logfields.Path(configPath), logfields.Error(err))
		}
		_ = runtime.ApplySettings(updated)
		applyVisuals(updated)
	})

	hooks.add(func(updated preferences.Settings) {
		fyne.Do(func() {
			prefsWindow.UpdateSettings(updated)
			applyVisuals(updated)
		})
	})

	quit := func() {
		window.Close()
		fyneApp.Quit()
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow:        window.Show,
			OnStart:       func() { input.Press(runtime.Store, input.ControlStart) },
			OnStop:        func() { input.Press(runtime.Store, input.ControlStop) },
			OnReset:       func() { input.Press(runtime.Store, input.ControlReset) },
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		trayManager.Update(runtime.Store.State())
		detach := runtime.Store.Observe(func(event timer.Event) {
			fyne.Do(func() {
				trayManager.Update(event.State)
			})
		})
		defer detach()
		window.SetCloseIntercept(window.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
		window.SetCloseIntercept(quit)
	}

	stop := context.AfterFunc(ctx, func() {
		fyne.Do(quit)
	})
	defer stop()

	if autostart {
		input.Press(runtime.Store, input.ControlStart)
	}

	window.Show()
	fyneApp.Run()
	return ctx.Err()
}
