package reporting

import (
	"fmt"
	"io"

	"github.com/blescope/blescope/internal/core/domain"
)

// WriteSummary renders the human-readable per-session summary block.
// Empty sessions are reported as a named empty result, never an error.
func WriteSummary(w io.Writer, label string, m domain.SessionMetrics) {
	fmt.Fprintf(w, "=== Summary: %s ===\n", label)
	if m.PacketCount == 0 {
		fmt.Fprintf(w, "  No packets found.\n\n")
		return
	}

	fmt.Fprintf(w, "  Packets:           %d\n", m.PacketCount)
	fmt.Fprintf(w, "  Counter range:     %s -> %s (expected ~%d)\n",
		formatOptInt(m.FirstCounter), formatOptInt(m.LastCounter), m.ExpectedCount)
	fmt.Fprintf(w, "  Approx loss:       %d packets (~%.2f%%)\n", m.LossCount, m.LossPct)
	fmt.Fprintf(w, "  TX time span:      %.2f s\n", m.SpanSeconds)
	fmt.Fprintf(w, "  RSSI mean/min/max: %.2f dBm / %s / %s\n",
		m.MeanRSSI, formatOptInt(m.MinRSSI), formatOptInt(m.MaxRSSI))
	fmt.Fprintf(w, "  Delta (RX-TX) mean/min/max: %.2f ms / %s / %s\n",
		m.MeanDelta, formatOptInt64(m.MinDelta), formatOptInt64(m.MaxDelta))
	fmt.Fprintln(w)
}

func formatOptInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}

func formatOptInt64(v *int64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}
