package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"countdown/internal/app"
	"countdown/internal/audio"
	"countdown/internal/logfields"
	"countdown/internal/metrics"
	"countdown/internal/storage"
	"countdown/internal/ui/preferences"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const appName = "countdown"

// CLI holds command line flags.
type CLI struct {
	Config      string `help:"Settings file. Defaults to the user config directory." type:"path"`
	EnvFile     string `help:"Dotenv file with COUNTDOWN_* overrides." default:".env" type:"path"`
	Mode        string `help:"Front end: ${enum}." enum:"gui,tui,headless" default:"gui"`
	StartTime   int    `help:"Countdown length in seconds." default:"-1"`
	Duration    int    `help:"Tick period in milliseconds." default:"-1"`
	Autostart   bool   `help:"Start counting immediately."`
	Mute        bool   `help:"Disable the completion chime."`
	Watch       bool   `help:"Reload the settings file when it changes."`
	MetricsAddr string `help:"Serve Prometheus metrics on this address."`
	LogLevel    string `help:"Log level: ${enum}." enum:"debug,info,warn,error" default:"info"`
	LogFile     string `help:"Write logs to this file instead of stderr." type:"path"`
	WriteConfig bool   `help:"Write the effective settings to the settings file and exit."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name(appName),
		kong.Description("A countdown timer with a colored circular display."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run(cli))
}

func run(cli CLI) error {
	logger, closeLog, err := newLogger(cli)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	configPath := cli.Config
	if configPath == "" {
		configPath, err = storage.ResolveConfigPath(appName)
		if err != nil {
			return err
		}
	}

	settings, err := loadSettings(cli, configPath, logger)
	if err != nil {
		return err
	}

	if cli.WriteConfig {
		if err := storage.SaveSettings(configPath, settings); err != nil {
			return err
		}
		fmt.Println(configPath)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, shutdownMetrics, err := startMetrics(cli.MetricsAddr, logger)
	if err != nil {
		return err
	}
	defer shutdownMetrics()

	var player app.Player
	if !cli.Mute {
		chime := audio.NewChime()
		if err := chime.Initialize(); err != nil {
			logger.Warn("chime disabled", logfields.Error(err))
		} else {
			defer chime.Close()
			player = chime
		}
	}

	runtime := app.New(app.Options{
		Settings: settings,
		Logger:   logger,
		Recorder: recorder,
		Player:   player,
	})
	defer runtime.Close()

	hooks := &settingsHooks{}
	hooks.add(func(updated preferences.Settings) {
		_ = runtime.ApplySettings(updated)
	})
	if cli.Watch {
		watcher, err := storage.NewWatcher(configPath, logger, hooks.fire)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("stop settings watcher", logfields.Error(err))
			}
		}()
	}

	logger.Info("countdown ready",
		logfields.Mode(cli.Mode),
		logfields.StartTime(runtime.Store.State().StartTime),
		logfields.PeriodMS(runtime.Store.State().Period().Milliseconds()))

	switch cli.Mode {
	case "headless":
		err = runtime.RunHeadless(ctx)
	case "tui":
		err = runTerminal(ctx, runtime, cli.Autostart, hooks, logger)
	default:
		err = runDesktop(ctx, runtime, configPath, cli.Autostart, hooks, logger)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadSettings(cli CLI, configPath string, logger *slog.Logger) (preferences.Settings, error) {
	if err := storage.LoadEnvFile(cli.EnvFile); err != nil {
		logger.Warn("env file ignored", logfields.Path(cli.EnvFile), logfields.Error(err))
	}

	settings, err := storage.LoadSettings(configPath)
	if err != nil {
		return settings, err
	}
	if err := storage.ApplyEnv(&settings); err != nil {
		logger.Warn("environment override ignored", logfields.Error(err))
	}

	if cli.StartTime >= 0 {
		settings.StartTime = cli.StartTime
	}
	if cli.Duration > 0 {
		settings.Duration = time.Duration(cli.Duration) * time.Millisecond
	}
	if cli.Mute {
		settings.Chime = false
	}
	return settings, nil
}

func newLogger(cli CLI) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cli.LogLevel))); err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	var writer io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case cli.LogFile != "":
		file, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writer = file
		closeLog = func() { _ = file.Close() }
	case cli.Mode == "tui":
		// stderr belongs to the terminal screen.
		writer = io.Discard
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeLog, nil
}

func startMetrics(addr string, logger *slog.Logger) (metrics.Recorder, func(), error) {
	if addr == "" {
		return metrics.NoopRecorder{}, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logfields.Addr(addr), logfields.Error(err))
		}
	}()
	logger.Info("serving metrics", logfields.Addr(addr))

	return recorder, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}

// settingsHooks fans reloaded settings out to every front end.
type settingsHooks struct {
	mu    sync.Mutex
	hooks []func(preferences.Settings)
}

func (h *settingsHooks) add(hook func(preferences.Settings)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

func (h *settingsHooks) fire(settings preferences.Settings) {
	h.mu.Lock()
	hooks := append([]func(preferences.Settings){}, h.hooks...)
	h.mu.Unlock()
	for _, hook := range hooks {
		hook(settings)
	}
}
