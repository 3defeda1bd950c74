package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blescope/blescope/internal/config"
)

func writeLog(t *testing.T, dir, name string, rssis []int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("=== Scan cycle #1 START ===\n")
	for i, rssi := range rssis {
		fmt.Fprintf(&b, "=== TARGET BLE DEVICE DETECTED ===\n")
		fmt.Fprintf(&b, "RX Unix ms (ESP32): %d\n", 1000+i*10)
		fmt.Fprintf(&b, "TX counter (payload): %d\n", i+1)
		fmt.Fprintf(&b, "TX Unix ms (payload): %d\n", 990+i*10)
		fmt.Fprintf(&b, "Delta = RX - TX: 10 ms\n")
		fmt.Fprintf(&b, "RSSI: %d dBm\n\n", rssi)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestAnalyzer_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	logA := writeLog(t, dir, "runA.txt", []int{-60, -62})
	logB := writeLog(t, dir, "runB.txt", []int{-70})

	cfg := &config.AnalyzeConfig{
		LogPaths:      []string{logA, logB},
		ExpectedCount: 4,
		GapUnits:      5,
		TXDeviceName:  "A72Aziz",
		CSV:           true,
	}

	var out bytes.Buffer
	analyzer := NewAnalyzer(cfg, &out)
	require.NoError(t, analyzer.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "=== Summary: runA ===")
	assert.Contains(t, text, "=== Summary: runB ===")
	assert.Contains(t, text, "Packets:           2")
	assert.Contains(t, text, "Combined index view: 2 sessions, gap 5")
	assert.Contains(t, text, "Histogram grid: 2 sessions on 1x2")

	// CSV lands next to the log with the same basename.
	data, err := os.ReadFile(filepath.Join(dir, "runA.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "tx_unix_ms(phone),rx_unix_ms(esp32),payload_counter,delta_ms,rssi_dbm,tx_device_name", lines[0])
	assert.Equal(t, "990,1000,1,10,-60,A72Aziz", lines[1])
}

func TestAnalyzer_MissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	logA := writeLog(t, dir, "runA.txt", []int{-60})

	cfg := &config.AnalyzeConfig{
		LogPaths:      []string{filepath.Join(dir, "missing.txt"), logA},
		ExpectedCount: 1,
		GapUnits:      5,
		TXDeviceName:  "A72Aziz",
	}

	var out bytes.Buffer
	require.NoError(t, NewAnalyzer(cfg, &out).Run(context.Background()))

	assert.Contains(t, out.String(), "=== Summary: runA ===")
	assert.NotContains(t, out.String(), "missing")
	// Single session: no cross-session views.
	assert.NotContains(t, out.String(), "Combined index view")
}

func TestAnalyzer_PDFReport(t *testing.T) {
	dir := t.TempDir()
	logA := writeLog(t, dir, "runA.txt", []int{-60})
	logB := writeLog(t, dir, "runB.txt", []int{-70})
	pdfPath := filepath.Join(dir, "report.pdf")

	cfg := &config.AnalyzeConfig{
		LogPaths:      []string{logA, logB},
		ExpectedCount: 1,
		GapUnits:      5,
		TXDeviceName:  "A72Aziz",
		PDFPath:       pdfPath,
	}

	var out bytes.Buffer
	require.NoError(t, NewAnalyzer(cfg, &out).Run(context.Background()))

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Contains(t, out.String(), "PDF report saved to: "+pdfPath)
}
