package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blescope/blescope/internal/adapters/mockrx"
	"github.com/blescope/blescope/internal/adapters/serialrx"
	"github.com/blescope/blescope/internal/adapters/web"
	"github.com/blescope/blescope/internal/config"
	"github.com/blescope/blescope/internal/core/ports"
	"github.com/blescope/blescope/internal/core/services/live"
	"github.com/blescope/blescope/internal/telemetry"
)

// LiveApp wires the serial transport, the bounded buffer, the ingestion
// pipeline and the web sink together for live mode.
type LiveApp struct {
	Config    *config.LiveConfig
	Pipeline  *live.Pipeline
	WebServer *web.Server
}

// NewLive bootstraps the live application.
func NewLive(cfg *config.LiveConfig) (*LiveApp, error) {
	if cfg.Port == "" && !cfg.MockMode {
		return nil, fmt.Errorf("no serial port configured")
	}

	telemetry.InitMetrics()

	var transport ports.Transport
	if cfg.MockMode {
		slog.Info("Mock mode active: synthesizing beacon stream")
		transport = mockrx.New(50 * time.Millisecond)
	} else {
		transport = serialrx.New(cfg.Port, cfg.Baud, cfg.ReadTimeout)
	}
	buffer := live.NewBuffer(cfg.MaxPoints)
	wsManager := web.NewWSManager()

	pipeline := live.NewPipeline(transport, buffer, wsManager, &live.Options{
		SnapshotInterval: cfg.SnapshotInterval,
		RetryPause:       cfg.RetryPause,
		JoinTimeout:      cfg.JoinTimeout,
	})

	server := web.NewServer(cfg.Addr, wsManager, web.LiveInfo{
		SessionID: pipeline.SessionID(),
		Port:      cfg.Port,
		Baud:      cfg.Baud,
		MaxPoints: cfg.MaxPoints,
	})

	return &LiveApp{
		Config:    cfg,
		Pipeline:  pipeline,
		WebServer: server,
	}, nil
}

// Run starts the web server and the ingestion pipeline and blocks until
// ctx is cancelled or either component fails.
func (a *LiveApp) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	pipeDone := make(chan error, 1)

	go func() {
		slog.Info("Live view listening", "addr", a.Config.Addr)
		if err := a.WebServer.Run(ctx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	go func() {
		pipeDone <- a.Pipeline.Run()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Termination signal received")
	case runErr = <-errChan:
	case err := <-pipeDone:
		if err != nil {
			runErr = fmt.Errorf("pipeline error: %w", err)
		}
		return runErr
	}

	// Stop the pipeline and wait for its shutdown path, which closes
	// the transport exactly once after the producer exits.
	a.Pipeline.Stop()
	if err := <-pipeDone; err != nil && runErr == nil {
		runErr = fmt.Errorf("pipeline error: %w", err)
	}
	return runErr
}
