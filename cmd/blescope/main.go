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
	cfg := config.LoadAnalyze()

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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzer := app.NewAnalyzer(cfg, os.Stdout)
	if err := analyzer.Run(ctx); err != nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}
}
