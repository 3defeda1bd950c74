package live

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blescope/blescope/internal/adapters/logparse"
	"github.com/blescope/blescope/internal/core/domain"
	"github.com/blescope/blescope/internal/core/ports"
	"github.com/blescope/blescope/internal/telemetry"
)

// Options tune the pipeline cadence. Zero values fall back to the
// defaults used by the live CLI.
type Options struct {
	SnapshotInterval time.Duration // consumer redisplay cadence
	RetryPause       time.Duration // pause after a transient read error
	JoinTimeout      time.Duration // bound on waiting for the producer at shutdown
}

func (o *Options) withDefaults() Options {
	opts := Options{
		SnapshotInterval: 100 * time.Millisecond,
		RetryPause:       100 * time.Millisecond,
		JoinTimeout:      2 * time.Second,
	}
	if o == nil {
		return opts
	}
	if o.SnapshotInterval > 0 {
		opts.SnapshotInterval = o.SnapshotInterval
	}
	if o.RetryPause > 0 {
		opts.RetryPause = o.RetryPause
	}
	if o.JoinTimeout > 0 {
		opts.JoinTimeout = o.JoinTimeout
	}
	return opts
}

// Pipeline is the two-task live ingestion loop: a producer reading lines
// from the transport into the bounded buffer and a consumer snapshotting
// the buffer on a fixed cadence for the sink. The buffer is the only
// shared resource between the two.
type Pipeline struct {
	transport ports.Transport
	buffer    *Buffer
	sink      ports.SnapshotSink
	sessionID string
	opts      Options

	stop      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// NewPipeline wires a transport, buffer and sink together. Each pipeline
// run is one session, identified by a fresh UUID.
func NewPipeline(transport ports.Transport, buffer *Buffer, sink ports.SnapshotSink, opts *Options) *Pipeline {
	return &Pipeline{
		transport: transport,
		buffer:    buffer,
		sink:      sink,
		sessionID: uuid.NewString(),
		opts:      opts.withDefaults(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// SessionID returns the identifier snapshots are tagged with.
func (p *Pipeline) SessionID() string {
	return p.sessionID
}

// Run opens the transport, starts the producer task and drives the
// consumer loop until Stop is called. A transport open failure is fatal
// and reported once; transient read failures are retried by the
// producer. Run guarantees the transport is closed exactly once after
// the producer has exited, waiting at most JoinTimeout for it.
func (p *Pipeline) Run() error {
	if err := p.transport.Open(); err != nil {
		return fmt.Errorf("transport open failed: %w", err)
	}
	slog.Info("Live pipeline started", "session", p.sessionID)

	go p.produce()

	ticker := time.NewTicker(p.opts.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			p.join()
			return nil
		case <-ticker.C:
			counters, rssis := p.buffer.Snapshot()
			p.sink.Publish(domain.LiveSnapshot{
				SessionID: p.sessionID,
				Counters:  counters,
				RSSIs:     rssis,
			})
		}
	}
}

// Stop signals the pipeline to shut down. The producer observes the
// signal at the next read-timeout boundary; there is no hard cancel of
// an in-flight read.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// produce is the producer task: read a line within the transport's
// bounded wait, feed the reduced two-field parser and append completed
// pairs to the buffer.
func (p *Pipeline) produce() {
	defer close(p.done)

	parser := logparse.NewStreamParser()
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		line, err := p.transport.ReadLine()
		if err != nil {
			// Recoverable: log, short backoff, keep the loop alive.
			telemetry.SerialReadErrors.Inc()
			slog.Warn("Serial read error", "error", err)
			p.pause(p.opts.RetryPause)
			continue
		}
		if line == "" {
			// Read timeout; loop back to observe the stop signal.
			continue
		}

		if counter, rssi, ok := parser.Feed(line); ok {
			p.buffer.Append(counter, rssi)
		}
	}
}

// join waits for the producer to exit, bounded by JoinTimeout, then
// closes the transport. Shutdown proceeds even if the producer is stuck
// in a read; the close is performed exactly once either way.
func (p *Pipeline) join() {
	select {
	case <-p.done:
	case <-time.After(p.opts.JoinTimeout):
		slog.Warn("Producer did not exit in time, closing transport anyway")
	}
	p.closeOnce.Do(func() {
		if err := p.transport.Close(); err != nil {
			slog.Warn("Transport close error", "error", err)
		}
	})
	slog.Info("Live pipeline stopped", "session", p.sessionID)
}

func (p *Pipeline) pause(d time.Duration) {
	select {
	case <-p.stop:
	case <-time.After(d):
	}
}
