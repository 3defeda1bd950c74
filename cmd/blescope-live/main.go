package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/blescope/blescope/internal/app"
	"github.com/blescope/blescope/internal/config"
	"github.com/blescope/blescope/internal/telemetry"
)

func main() {
	cfg := config.LoadLive()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	application, err := app.NewLive(cfg)
	if err != nil {
		slog.Error("Failed to initialize live mode", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("blescope live starting", "port", cfg.Port, "baud", cfg.Baud)

	if err := application.Run(ctx); err != nil {
		slog.Error("Live mode error", "error", err)
		cancel()
		os.Exit(1)
	}
}
