package domain

// PacketRecord is one received beacon packet reconstructed from the
// receiver's diagnostic output. Every field except RSSIDbm may be absent
// from the log block; absence is a nil pointer, never a sentinel value.
type PacketRecord struct {
	SessionID string `json:"session_id"`
	ScanCycle *int   `json:"scan_cycle,omitempty"`
	RXUnixMs  *int64 `json:"rx_unix_ms,omitempty"`
	TXCounter *int   `json:"tx_counter,omitempty"`
	TXUnixMs  *int64 `json:"tx_unix_ms,omitempty"`
	DeltaMs   *int64 `json:"delta_ms,omitempty"`
	RSSIDbm   *int   `json:"rssi_dbm,omitempty"`
}

// Complete reports whether the record carries a signal strength reading.
// Incomplete records never leave the parser.
func (r *PacketRecord) Complete() bool {
	return r.RSSIDbm != nil
}

// Session is the ordered collection of complete records parsed from one
// origin (a log file or a live stream). Records keep emission order; the
// aggregator establishes temporal order when it needs one.
type Session struct {
	ID            string         `json:"id"`
	Records       []PacketRecord `json:"records"`
	ExpectedCount int            `json:"expected_count"`
}

// CounterModulo is the width of the sender's sequence counter. The counter
// wraps to zero past 65535.
const CounterModulo = 65536
