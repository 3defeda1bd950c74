package logparse

import (
	"regexp"
	"strconv"
	"strings"
)

// FieldKind identifies which marker a log line carries. A line carries at
// most one field; unrecognized lines are FieldNone, which is not an error.
type FieldKind int

const (
	FieldNone FieldKind = iota
	FieldScanCycle
	FieldBlockStart
	FieldRXUnixMs
	FieldTXCounter
	FieldTXUnixMs
	FieldDeltaMs
	FieldRSSI
)

// BlockStartMarker opens a new candidate packet block in the receiver's
// diagnostic output.
const BlockStartMarker = "=== TARGET BLE DEVICE DETECTED ==="

var (
	scanCycleRe = regexp.MustCompile(`^=== Scan cycle #(\d+) START`)
	rxUnixRe    = regexp.MustCompile(`^RX Unix ms \(ESP32\):\s*([0-9]+)`)
	txCounterRe = regexp.MustCompile(`^TX counter \(payload\):\s*([0-9]+)`)
	txUnixRe    = regexp.MustCompile(`^TX Unix ms \(payload\):\s*([0-9]+)`)
	deltaRe     = regexp.MustCompile(`^Delta = .*:\s*(-?[0-9]+)\s+ms`)
	rssiRe      = regexp.MustCompile(`^RSSI:\s*(-?[0-9]+)\s*dBm`)

	// Streaming variant markers are matched anywhere in the line: serial
	// output may carry leading boot noise on the same line.
	liveCounterRe = regexp.MustCompile(`TX counter \(payload\):\s*([0-9]+)`)
	liveRSSIRe    = regexp.MustCompile(`RSSI:\s*(-?[0-9]+)\s*dBm`)
)

// ExtractField recognizes the field marker on one trimmed line and returns
// its numeric value. Patterns are tried in a fixed priority order and the
// first match wins. Values are not validated for physical plausibility.
func ExtractField(line string) (FieldKind, int64) {
	if m := scanCycleRe.FindStringSubmatch(line); m != nil {
		return FieldScanCycle, mustInt(m[1])
	}
	if strings.HasPrefix(line, BlockStartMarker) {
		return FieldBlockStart, 0
	}
	if m := rxUnixRe.FindStringSubmatch(line); m != nil {
		return FieldRXUnixMs, mustInt(m[1])
	}
	if m := txCounterRe.FindStringSubmatch(line); m != nil {
		return FieldTXCounter, mustInt(m[1])
	}
	if m := txUnixRe.FindStringSubmatch(line); m != nil {
		return FieldTXUnixMs, mustInt(m[1])
	}
	if m := deltaRe.FindStringSubmatch(line); m != nil {
		return FieldDeltaMs, mustInt(m[1])
	}
	if m := rssiRe.FindStringSubmatch(line); m != nil {
		return FieldRSSI, mustInt(m[1])
	}
	return FieldNone, 0
}

// ScanCounter matches the sender counter marker anywhere in the line.
func ScanCounter(line string) (int, bool) {
	if m := liveCounterRe.FindStringSubmatch(line); m != nil {
		return int(mustInt(m[1])), true
	}
	return 0, false
}

// ScanRSSI matches the signal strength marker anywhere in the line.
func ScanRSSI(line string) (int, bool) {
	if m := liveRSSIRe.FindStringSubmatch(line); m != nil {
		return int(mustInt(m[1])), true
	}
	return 0, false
}

func mustInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// The regexes only capture decimal digit runs; overflow is the
		// only failure mode and yields the clamped value.
		return n
	}
	return n
}
