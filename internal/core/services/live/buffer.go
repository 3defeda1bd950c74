package live

import (
	"sync"

	"github.com/blescope/blescope/internal/telemetry"
)

// Buffer is the bounded pair of parallel counter/RSSI sequences shared
// between the serial producer and the snapshot consumer. All access is
// serialized through one mutex held only for the duration of an
// append-or-evict or a snapshot copy, never across transport I/O or
// render calls.
type Buffer struct {
	mu        sync.Mutex
	maxPoints int
	counters  []int
	rssis     []int
}

// NewBuffer creates a buffer capped at maxPoints pairs.
func NewBuffer(maxPoints int) *Buffer {
	return &Buffer{
		maxPoints: maxPoints,
		counters:  make([]int, 0, maxPoints),
		rssis:     make([]int, 0, maxPoints),
	}
}

// Append adds one pair atomically, evicting the oldest pair first once
// the cap is exceeded. The length bound is strict: it never exceeds
// maxPoints after any sequence of appends.
func (b *Buffer) Append(counter, rssi int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counters = append(b.counters, counter)
	b.rssis = append(b.rssis, rssi)
	for len(b.counters) > b.maxPoints {
		b.counters = append(b.counters[:0], b.counters[1:]...)
		b.rssis = append(b.rssis[:0], b.rssis[1:]...)
		telemetry.LivePointsEvicted.Inc()
	}
	telemetry.LivePointsAppended.Inc()
}

// Snapshot returns a consistent point-in-time copy of both sequences.
// The copy reflects a prefix of the append sequence as of the lock
// acquisition instant; no pair is duplicated or reordered.
func (b *Buffer) Snapshot() (counters, rssis []int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	counters = make([]int, len(b.counters))
	rssis = make([]int, len(b.rssis))
	copy(counters, b.counters)
	copy(rssis, b.rssis)
	return counters, rssis
}

// Len returns the current number of pairs.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.counters)
}
