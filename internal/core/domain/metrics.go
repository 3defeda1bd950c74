package domain

// SessionMetrics is an aggregated snapshot derived from one Session. It is
// recomputed on demand and never cached or mutated independently of the
// session it came from.
type SessionMetrics struct {
	PacketCount   int `json:"packet_count"`
	ExpectedCount int `json:"expected_count"`

	// Counters in temporal (tx-time) order. CounterSpan is wraparound
	// aware but informational only: the loss estimate is always measured
	// against ExpectedCount.
	FirstCounter *int `json:"first_counter,omitempty"`
	LastCounter  *int `json:"last_counter,omitempty"`
	CounterSpan  *int `json:"counter_span,omitempty"`

	LossCount int     `json:"loss_count"`
	LossPct   float64 `json:"loss_pct"` // NaN when ExpectedCount is zero

	MeanRSSI float64 `json:"mean_rssi"` // NaN when no readings
	MinRSSI  *int    `json:"min_rssi,omitempty"`
	MaxRSSI  *int    `json:"max_rssi,omitempty"`

	MeanDelta float64 `json:"mean_delta"` // NaN when no readings
	MinDelta  *int64  `json:"min_delta,omitempty"`
	MaxDelta  *int64  `json:"max_delta,omitempty"`

	FirstTXUnixMs *int64  `json:"first_tx_unix_ms,omitempty"`
	LastTXUnixMs  *int64  `json:"last_tx_unix_ms,omitempty"`
	SpanSeconds   float64 `json:"span_seconds"` // NaN when tx times missing
}
