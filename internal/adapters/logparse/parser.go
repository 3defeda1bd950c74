package logparse

import (
	"bufio"
	"io"
	"strings"

	"github.com/blescope/blescope/internal/core/domain"
	"github.com/blescope/blescope/internal/telemetry"
)

// Parser is the record parsing state machine. It consumes one line at a
// time, accumulates fields into an in-progress record and emits completed
// records on block boundaries. The scan cycle marker is carried across
// blocks; the in-progress record is dropped, never emitted, when a new
// block opens before a signal strength reading arrived.
type Parser struct {
	sessionID string
	scanCycle *int
	current   *pending
}

// pending accumulates the fields of the currently open block.
// Last write wins within a block.
type pending struct {
	rxUnixMs  *int64
	txCounter *int
	txUnixMs  *int64
	deltaMs   *int64
	rssiDbm   *int
}

func (p *pending) complete() bool {
	return p != nil && p.rssiDbm != nil
}

// NewParser creates a parser whose emitted records are tagged with the
// given session identifier.
func NewParser(sessionID string) *Parser {
	return &Parser{sessionID: sessionID}
}

// Feed processes one raw line and returns the record it finalized, if any.
// At most one record is emitted per line.
func (p *Parser) Feed(rawLine string) (domain.PacketRecord, bool) {
	line := strings.TrimSpace(sanitize(rawLine))
	telemetry.LinesScanned.WithLabelValues(p.sessionID).Inc()

	kind, value := ExtractField(line)

	switch kind {
	case FieldScanCycle:
		cycle := int(value)
		p.scanCycle = &cycle
		return domain.PacketRecord{}, false

	case FieldBlockStart:
		rec, emitted := p.flushCurrent("block_start")
		p.current = &pending{}
		return rec, emitted
	}

	if p.current == nil {
		// Lines outside a packet block are ignored until the next
		// block start marker.
		return domain.PacketRecord{}, false
	}

	switch kind {
	case FieldRXUnixMs:
		p.current.rxUnixMs = &value
	case FieldTXCounter:
		counter := int(value)
		p.current.txCounter = &counter
	case FieldTXUnixMs:
		p.current.txUnixMs = &value
	case FieldDeltaMs:
		p.current.deltaMs = &value
	case FieldRSSI:
		rssi := int(value)
		p.current.rssiDbm = &rssi
	case FieldNone:
		// A blank line is the normal end-of-block path. The block start
		// marker handles malformed logs missing the trailing blank line.
		if line == "" && p.current.complete() {
			rec, _ := p.flushCurrent("")
			p.current = nil
			return rec, true
		}
	}

	return domain.PacketRecord{}, false
}

// Close finalizes the parser at end of input. An open, complete record is
// emitted; an open, incomplete record is dropped.
func (p *Parser) Close() (domain.PacketRecord, bool) {
	rec, emitted := p.flushCurrent("end_of_input")
	p.current = nil
	return rec, emitted
}

// flushCurrent finalizes the open record when it is complete, tagging it
// with the session id and the scan cycle seen most recently. Incomplete
// records are discarded silently: lost mid-block data is not recoverable
// and not reported as an error.
func (p *Parser) flushCurrent(dropReason string) (domain.PacketRecord, bool) {
	if p.current == nil {
		return domain.PacketRecord{}, false
	}
	if !p.current.complete() {
		if dropReason != "" {
			telemetry.RecordsDropped.WithLabelValues(p.sessionID, dropReason).Inc()
		}
		return domain.PacketRecord{}, false
	}

	rec := domain.PacketRecord{
		SessionID: p.sessionID,
		ScanCycle: p.scanCycle,
		RXUnixMs:  p.current.rxUnixMs,
		TXCounter: p.current.txCounter,
		TXUnixMs:  p.current.txUnixMs,
		DeltaMs:   p.current.deltaMs,
		RSSIDbm:   p.current.rssiDbm,
	}
	telemetry.RecordsEmitted.WithLabelValues(p.sessionID).Inc()
	return rec, true
}

// ParseReader drains r line by line and returns the complete records in
// emission order. Undecodable bytes are replaced, never a hard failure.
func ParseReader(sessionID string, r io.Reader) ([]domain.PacketRecord, error) {
	parser := NewParser(sessionID)
	var records []domain.PacketRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if rec, ok := parser.Feed(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}

	if rec, ok := parser.Close(); ok {
		records = append(records, rec)
	}
	return records, nil
}

// sanitize replaces invalid UTF-8 so garbled transport bytes never break
// field matching.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "�")
}
