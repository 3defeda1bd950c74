package mockrx

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Transport synthesizes the receiver's diagnostic line stream so the
// live pipeline can run without a beacon in range. It implements
// ports.Transport with the same bounded-wait read semantics as the
// serial adapter.
type Transport struct {
	interval time.Duration

	mu      sync.Mutex
	open    bool
	counter int
	rssi    int
	queue   []string
	rng     *rand.Rand
}

// New creates a mock transport emitting one counter/RSSI pair roughly
// every interval.
func New(interval time.Duration) *Transport {
	return &Transport{
		interval: interval,
		rssi:     -60,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Open marks the transport ready.
func (t *Transport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = true
	return nil
}

// ReadLine emits the next synthetic line, pacing pairs at the configured
// interval. Between pairs it behaves like a read timeout.
func (t *Transport) ReadLine() (string, error) {
	t.mu.Lock()
	if !t.open {
		t.mu.Unlock()
		return "", fmt.Errorf("transport not open")
	}
	if len(t.queue) > 0 {
		line := t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()
		return line, nil
	}

	// Signal strength random walk, clamped to a plausible dBm band.
	t.rssi += t.rng.Intn(7) - 3
	if t.rssi > -35 {
		t.rssi = -35
	}
	if t.rssi < -95 {
		t.rssi = -95
	}
	t.counter = (t.counter + 1) % 65536

	t.queue = append(t.queue,
		fmt.Sprintf("TX counter (payload): %d", t.counter),
		fmt.Sprintf("RSSI: %d dBm", t.rssi),
	)
	t.mu.Unlock()

	time.Sleep(t.interval)
	return "", nil
}

// Close marks the transport closed.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = false
	return nil
}
