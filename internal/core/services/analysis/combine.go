package analysis

import (
	"fmt"
	"math"

	"github.com/blescope/blescope/internal/core/domain"
)

// CombinedIndexView concatenates each session's counter/RSSI series along
// a virtual index axis, inserting gapUnits empty positions between
// sessions. Sessions without data contribute no segment. The view exists
// only when at least two sessions have data.
func CombinedIndexView(results []SessionResult, gapUnits int) *domain.CombinedSeries {
	view := &domain.CombinedSeries{GapUnits: gapUnits}

	offset := 0
	for _, res := range results {
		series := Series(res.Session)
		if len(series.Counters) == 0 {
			continue
		}

		seg := domain.CombinedSegment{
			Label:    res.Session.ID,
			Packets:  res.Metrics.PacketCount,
			Expected: res.Metrics.ExpectedCount,
			Indices:  make([]int, len(series.Counters)),
			RSSIs:    series.RSSIs,
		}
		for i := range series.Counters {
			seg.Indices[i] = offset + i
		}
		offset += len(series.Counters) + gapUnits

		view.Segments = append(view.Segments, seg)
	}

	if len(view.Segments) < 2 {
		return nil
	}
	return view
}

// HistogramGridView lays one RSSI sample set per session out on an
// automatically sized grid: columns = ceil(sqrt(n)), rows = ceil(n/cols),
// unused trailing cells removed. The view exists only when at least two
// sessions have data.
func HistogramGridView(results []SessionResult) *domain.HistogramGrid {
	var cells []domain.HistogramCell
	for _, res := range results {
		rssis := rssiValues(res.Session)
		if len(rssis) == 0 {
			continue
		}
		cells = append(cells, domain.HistogramCell{Label: res.Session.ID, RSSIs: rssis})
	}

	if len(cells) < 2 {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(cells)))))
	rows := (len(cells) + cols - 1) / cols
	return &domain.HistogramGrid{Rows: rows, Cols: cols, Cells: cells}
}

// MeanRSSIBars produces one bar per session with data, labeled with the
// packet count over the expected count, valued at the session mean RSSI.
func MeanRSSIBars(results []SessionResult) *domain.BarView {
	view := &domain.BarView{Title: "Mean RSSI per session"}
	for _, res := range results {
		if math.IsNaN(res.Metrics.MeanRSSI) {
			continue
		}
		view.Bars = append(view.Bars, domain.Bar{
			Label:      fmt.Sprintf("%s (%d/%d)", res.Session.ID, res.Metrics.PacketCount, res.Metrics.ExpectedCount),
			Value:      res.Metrics.MeanRSSI,
			Annotation: fmt.Sprintf("%.2f dBm", res.Metrics.MeanRSSI),
		})
	}
	if len(view.Bars) == 0 {
		return nil
	}
	return view
}

// LossReceivedBars produces two index-aligned bar series per session with
// data: the loss percentage and its complement, each annotated with the
// absolute count over the expected count.
func LossReceivedBars(results []SessionResult) *domain.LossReceivedView {
	view := &domain.LossReceivedView{
		Loss:     domain.BarView{Title: "Packet loss per session"},
		Received: domain.BarView{Title: "Packets received per session"},
	}

	for _, res := range results {
		if res.Metrics.PacketCount == 0 {
			continue
		}
		m := res.Metrics
		if view.Expected == 0 {
			view.Expected = m.ExpectedCount
		}

		recvCount := m.ExpectedCount - m.LossCount
		recvPct := 100.0 - m.LossPct

		view.Loss.Bars = append(view.Loss.Bars, domain.Bar{
			Label:      res.Session.ID,
			Value:      m.LossPct,
			Annotation: fmt.Sprintf("%d/%d (%.1f%%)", m.LossCount, m.ExpectedCount, m.LossPct),
		})
		view.Received.Bars = append(view.Received.Bars, domain.Bar{
			Label:      res.Session.ID,
			Value:      recvPct,
			Annotation: fmt.Sprintf("%d/%d (%.1f%%)", recvCount, m.ExpectedCount, recvPct),
		})
	}

	if len(view.Loss.Bars) == 0 {
		return nil
	}
	return view
}

func rssiValues(s domain.Session) []int {
	var vals []int
	for _, r := range s.Records {
		if r.RSSIDbm != nil {
			vals = append(vals, *r.RSSIDbm)
		}
	}
	return vals
}
