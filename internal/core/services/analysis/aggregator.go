package analysis

import (
	"math"
	"sort"

	"github.com/blescope/blescope/internal/core/domain"
)

// SessionResult pairs a parsed session with its derived metrics. The
// combiner consumes these in the order sessions were provided.
type SessionResult struct {
	Session domain.Session
	Metrics domain.SessionMetrics
}

// SortByTXTime returns a copy of the records in canonical temporal order:
// ascending sender timestamp, with missing timestamps treated as zero so
// they sort first. This order is the single source of truth for "first"
// and "last" throughout the system.
func SortByTXTime(records []domain.PacketRecord) []domain.PacketRecord {
	sorted := make([]domain.PacketRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return txTimeOrZero(sorted[i]) < txTimeOrZero(sorted[j])
	})
	return sorted
}

func txTimeOrZero(r domain.PacketRecord) int64 {
	if r.TXUnixMs == nil {
		return 0
	}
	return *r.TXUnixMs
}

// Summarize computes SessionMetrics for one session. RSSI and delta
// statistics are independent: a record missing one field still
// contributes to the other's aggregate. The loss estimate is always
// measured against the session's expected count, never against the
// observed counter span.
func Summarize(s domain.Session) domain.SessionMetrics {
	m := domain.SessionMetrics{
		PacketCount:   len(s.Records),
		ExpectedCount: s.ExpectedCount,
		MeanRSSI:      math.NaN(),
		MeanDelta:     math.NaN(),
		SpanSeconds:   math.NaN(),
	}

	m.LossCount = s.ExpectedCount - len(s.Records)
	if m.LossCount < 0 {
		m.LossCount = 0
	}
	if s.ExpectedCount > 0 {
		m.LossPct = float64(m.LossCount) / float64(s.ExpectedCount) * 100.0
	} else {
		m.LossPct = math.NaN()
	}

	if len(s.Records) == 0 {
		return m
	}

	sorted := SortByTXTime(s.Records)

	var rssiSum, deltaSum, rssiN, deltaN int64
	for _, r := range sorted {
		if r.RSSIDbm != nil {
			v := *r.RSSIDbm
			rssiSum += int64(v)
			rssiN++
			if m.MinRSSI == nil || v < *m.MinRSSI {
				m.MinRSSI = intPtr(v)
			}
			if m.MaxRSSI == nil || v > *m.MaxRSSI {
				m.MaxRSSI = intPtr(v)
			}
		}
		if r.DeltaMs != nil {
			v := *r.DeltaMs
			deltaSum += v
			deltaN++
			if m.MinDelta == nil || v < *m.MinDelta {
				m.MinDelta = int64Ptr(v)
			}
			if m.MaxDelta == nil || v > *m.MaxDelta {
				m.MaxDelta = int64Ptr(v)
			}
		}
	}
	if rssiN > 0 {
		m.MeanRSSI = float64(rssiSum) / float64(rssiN)
	}
	if deltaN > 0 {
		m.MeanDelta = float64(deltaSum) / float64(deltaN)
	}

	// First/last counters follow the temporal sort, not counter value.
	for _, r := range sorted {
		if r.TXCounter != nil {
			m.FirstCounter = intPtr(*r.TXCounter)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].TXCounter != nil {
			m.LastCounter = intPtr(*sorted[i].TXCounter)
			break
		}
	}
	if m.FirstCounter != nil && m.LastCounter != nil {
		// Wraparound-aware span, informational only.
		span := (*m.LastCounter-*m.FirstCounter+domain.CounterModulo)%domain.CounterModulo + 1
		m.CounterSpan = intPtr(span)
	}

	m.FirstTXUnixMs = sorted[0].TXUnixMs
	m.LastTXUnixMs = sorted[len(sorted)-1].TXUnixMs
	if m.FirstTXUnixMs != nil && m.LastTXUnixMs != nil {
		m.SpanSeconds = float64(*m.LastTXUnixMs-*m.FirstTXUnixMs) / 1000.0
	}

	return m
}

// Series projects one session onto its counter/RSSI line series in
// temporal order. Records missing either field are skipped pairwise.
func Series(s domain.Session) domain.SeriesView {
	view := domain.SeriesView{Label: s.ID}
	for _, r := range SortByTXTime(s.Records) {
		if r.TXCounter == nil || r.RSSIDbm == nil {
			continue
		}
		view.Counters = append(view.Counters, *r.TXCounter)
		view.RSSIs = append(view.RSSIs, *r.RSSIDbm)
	}
	return view
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
