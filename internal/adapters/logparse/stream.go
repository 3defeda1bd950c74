package logparse

import "strings"

// StreamParser is the reduced two-field variant used by the live
// ingestion pipeline. There are no block markers on the stream: a pair is
// complete as soon as both the counter and a signal strength reading have
// been seen since the last emission.
type StreamParser struct {
	counter *int
	rssi    *int
}

// NewStreamParser creates an empty streaming parser.
func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// Feed processes one raw line. When the line completes a counter/RSSI
// pair the pair is returned and the parser resets for the next one.
func (s *StreamParser) Feed(rawLine string) (counter, rssi int, ok bool) {
	line := strings.TrimSpace(sanitize(rawLine))

	if c, found := ScanCounter(line); found {
		s.counter = &c
	}
	if r, found := ScanRSSI(line); found {
		s.rssi = &r
	}

	if s.counter != nil && s.rssi != nil {
		counter, rssi = *s.counter, *s.rssi
		s.counter, s.rssi = nil, nil
		return counter, rssi, true
	}
	return 0, 0, false
}
