package ports

import (
	"context"

	"github.com/blescope/blescope/internal/core/domain"
)

// Transport is a line-oriented byte stream with a bounded per-read wait.
// ReadLine returns ("", nil) when the wait elapses without a full line, so
// callers can observe a stop signal promptly instead of blocking. Open
// failure is fatal for the caller; ReadLine errors are transient.
type Transport interface {
	Open() error
	ReadLine() (string, error)
	Close() error
}

// SnapshotSink receives the periodic live buffer snapshots. Publish must
// not block on display latency; the pipeline never holds the buffer lock
// across a Publish call.
type SnapshotSink interface {
	Publish(snap domain.LiveSnapshot)
}

// RecordExporter persists one session's records to an export artifact.
// Exporters are write-only sinks: nothing in the system reads sessions
// back after the process exits.
type RecordExporter interface {
	SaveSession(ctx context.Context, s domain.Session, deviceName string) error
	Close() error
}
