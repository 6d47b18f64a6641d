// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

// Command expogrid is a workspace overview daemon for i3. It keeps
// per-workspace screenshots fresh in the background and, on SIGUSR1,
// shows a fullscreen grid of all workspaces to switch between them.
//
// Signals:
//
//	SIGUSR1    show the overview (or dismiss it when visible)
//	SIGHUP     reload the configuration and rebuild workspace state
//	SIGINT     shut down
//	SIGTERM    shut down
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/expogrid/expogrid/capture"
	"github.com/expogrid/expogrid/config"
	"github.com/expogrid/expogrid/display"
	"github.com/expogrid/expogrid/lib/clock"
	"github.com/expogrid/expogrid/lib/worker"
	"github.com/expogrid/expogrid/overview"
	"github.com/expogrid/expogrid/updater"
	"github.com/expogrid/expogrid/wm"
	"github.com/expogrid/expogrid/workspace"
)

const version = "0.1.0"

func main() {
	configPath := pflag.String("config", "", "configuration file (default: $XDG_CONFIG_HOME/expogrid/config.yaml)")
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")
	showVersion := pflag.Bool("version", false, "print the version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println("expogrid " + version)
		return
	}

	logger := newLogger(*logLevel)
	if err := run(*configPath, logger); err != nil {
		logger.Error("expogrid exiting", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	grabber, err := capture.NewX11(logger)
	if err != nil {
		return err
	}
	defer grabber.Close()
	resolveSizes(cfg, grabber)

	logger.Info("expogrid starting",
		"version", version,
		"capture", fmt.Sprintf("%dx%d", cfg.Capture.Width, cfg.Capture.Height),
		"grid", fmt.Sprintf("%dx%d", cfg.UI.GridColumns, cfg.UI.GridRows),
	)

	client := wm.NewI3(logger)
	defer client.Close()
	registry := workspace.NewRegistry(logger)
	clk := clock.Real()

	upd := updater.New(client, registry, grabber, clk, updaterConfig(cfg), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updWorker := worker.Go("updater", logger, func() error {
		return upd.Run(ctx)
	})

	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1)
	defer signal.Stop(signals)

	disp := display.NewX11(logger)

	// The renderer outlives individual overview sessions so tile caches
	// survive between showings. Rebuilt only on config reload.
	renderer := overview.NewRenderer(cfg, registry, clk, logger, cfg.UI.WindowWidth, cfg.UI.WindowHeight)

	var sessionCancel context.CancelFunc
	var sessionDone chan struct{}

	for {
		select {
		case <-updWorker.Done():
			if err := updWorker.Err(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("updater stopped: %w", err)
			}
			return errors.New("updater stopped unexpectedly")

		case <-sessionDone:
			sessionCancel()
			sessionCancel = nil
			sessionDone = nil

		case sig := <-signals:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Info("shutting down", "signal", sig.String())
				if sessionCancel != nil {
					sessionCancel()
					<-sessionDone
				}
				cancel()
				<-updWorker.Done()
				return nil

			case syscall.SIGHUP:
				// A visible overview reads the configuration; close it
				// before swapping the config in place. The updater holds
				// its own copy of the capture settings, so nothing else
				// reads cfg concurrently.
				if sessionCancel != nil {
					sessionCancel()
					<-sessionDone
					sessionCancel = nil
					sessionDone = nil
				}
				if reload(configPath, cfg, grabber, upd, logger) {
					renderer = overview.NewRenderer(cfg, registry, clk, logger, cfg.UI.WindowWidth, cfg.UI.WindowHeight)
				}

			case syscall.SIGUSR1:
				if sessionCancel != nil {
					// Second USR1 while visible dismisses the overview.
					sessionCancel()
					continue
				}
				sctx, scancel := context.WithCancel(ctx)
				done := make(chan struct{})
				sessionCancel = scancel
				sessionDone = done
				session := overview.NewSession(cfg, client, upd, registry, disp, renderer, logger)
				go func() {
					defer close(done)
					if err := session.Run(sctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("overview session failed", "error", err)
					}
				}()
			}
		}
	}
}

// reload re-reads the configuration and rebuilds workspace state,
// reporting whether a new configuration took effect. A broken file
// keeps the running configuration.
func reload(configPath string, cfg *config.Config, grabber *capture.X11, upd *updater.Updater, logger *slog.Logger) bool {
	fresh, err := config.Load(configPath)
	if err != nil {
		logger.Warn("config reload failed, keeping current configuration", "error", err)
		return false
	}
	resolveSizes(fresh, grabber)

	*cfg = *fresh
	upd.Reconfigure(updaterConfig(cfg))
	upd.Reset()
	logger.Info("configuration reloaded")
	return true
}

// updaterConfig maps the capture settings into the updater's own copy.
func updaterConfig(cfg *config.Config) updater.Config {
	return updater.Config{
		MinUpdateInterval:    cfg.Capture.MinUpdateInterval.Std(),
		ForcedUpdateInterval: cfg.Capture.ForcedUpdateInterval.Std(),
		Capture: updater.Region{
			X:      cfg.Capture.OffsetX,
			Y:      cfg.Capture.OffsetY,
			Width:  cfg.Capture.Width,
			Height: cfg.Capture.Height,
		},
	}
}

// resolveSizes fills zero capture and window dimensions from the root
// window.
func resolveSizes(cfg *config.Config, grabber *capture.X11) {
	width, height := grabber.ScreenSize()
	if cfg.Capture.Width == 0 {
		cfg.Capture.Width = width
	}
	if cfg.Capture.Height == 0 {
		cfg.Capture.Height = height
	}
	if cfg.UI.WindowWidth == 0 {
		cfg.UI.WindowWidth = width
	}
	if cfg.UI.WindowHeight == 0 {
		cfg.UI.WindowHeight = height
	}
}
