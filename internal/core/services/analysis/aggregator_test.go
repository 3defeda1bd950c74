package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blescope/blescope/internal/core/domain"
)

func rec(counter int, txMs int64, rssi int) domain.PacketRecord {
	return domain.PacketRecord{
		TXCounter: &counter,
		TXUnixMs:  &txMs,
		RSSIDbm:   &rssi,
	}
}

func TestSortByTXTime(t *testing.T) {
	records := []domain.PacketRecord{
		rec(3, 3000, -60),
		rec(1, 1000, -61),
		{RSSIDbm: intPtr(-62)}, // no timestamp, sorts as zero
		rec(2, 2000, -63),
	}

	sorted := SortByTXTime(records)
	require.Len(t, sorted, 4)
	assert.Nil(t, sorted[0].TXUnixMs)
	assert.Equal(t, int64(1000), *sorted[1].TXUnixMs)
	assert.Equal(t, int64(2000), *sorted[2].TXUnixMs)
	assert.Equal(t, int64(3000), *sorted[3].TXUnixMs)

	// The input slice stays untouched.
	assert.Equal(t, int64(3000), *records[0].TXUnixMs)
}

func TestSummarize_LossAgainstExpected(t *testing.T) {
	s := domain.Session{ID: "run1", ExpectedCount: 200}
	for i := 0; i < 150; i++ {
		s.Records = append(s.Records, rec(i, int64(1000+i*10), -60))
	}

	m := Summarize(s)
	assert.Equal(t, 150, m.PacketCount)
	assert.Equal(t, 50, m.LossCount)
	assert.InDelta(t, 25.0, m.LossPct, 1e-9)
}

func TestSummarize_MoreThanExpectedClampsToZeroLoss(t *testing.T) {
	s := domain.Session{ID: "run1", ExpectedCount: 2}
	s.Records = []domain.PacketRecord{rec(1, 1000, -60), rec(2, 1010, -61), rec(3, 1020, -62)}

	m := Summarize(s)
	assert.Equal(t, 0, m.LossCount)
	assert.InDelta(t, 0.0, m.LossPct, 1e-9)
}

func TestSummarize_ZeroExpectedYieldsNaNLossPct(t *testing.T) {
	s := domain.Session{ID: "run1", ExpectedCount: 0}
	s.Records = []domain.PacketRecord{rec(1, 1000, -60)}

	m := Summarize(s)
	assert.Equal(t, 0, m.LossCount)
	assert.True(t, math.IsNaN(m.LossPct))
}

func TestSummarize_EmptySession(t *testing.T) {
	m := Summarize(domain.Session{ID: "run1", ExpectedCount: 200})

	assert.Equal(t, 0, m.PacketCount)
	assert.Equal(t, 200, m.LossCount)
	assert.True(t, math.IsNaN(m.MeanRSSI))
	assert.True(t, math.IsNaN(m.MeanDelta))
	assert.True(t, math.IsNaN(m.SpanSeconds))
	assert.Nil(t, m.FirstCounter)
	assert.Nil(t, m.CounterSpan)
}

func TestSummarize_IndependentRSSIAndDeltaStats(t *testing.T) {
	d1, d2 := int64(10), int64(30)
	s := domain.Session{ID: "run1", ExpectedCount: 3, Records: []domain.PacketRecord{
		{TXUnixMs: int64Ptr(1000), RSSIDbm: intPtr(-50), DeltaMs: &d1},
		{TXUnixMs: int64Ptr(2000), RSSIDbm: intPtr(-70)}, // no delta
		{TXUnixMs: int64Ptr(3000), DeltaMs: &d2},         // no rssi
	}}

	m := Summarize(s)
	assert.InDelta(t, -60.0, m.MeanRSSI, 1e-9)
	assert.Equal(t, -70, *m.MinRSSI)
	assert.Equal(t, -50, *m.MaxRSSI)
	assert.InDelta(t, 20.0, m.MeanDelta, 1e-9)
	assert.Equal(t, int64(10), *m.MinDelta)
	assert.Equal(t, int64(30), *m.MaxDelta)
}

func TestSummarize_TimeSpan(t *testing.T) {
	s := domain.Session{ID: "run1", ExpectedCount: 2, Records: []domain.PacketRecord{
		rec(2, 4500, -60),
		rec(1, 1000, -61),
	}}

	m := Summarize(s)
	assert.Equal(t, int64(1000), *m.FirstTXUnixMs)
	assert.Equal(t, int64(4500), *m.LastTXUnixMs)
	assert.InDelta(t, 3.5, m.SpanSeconds, 1e-9)
	assert.Equal(t, 1, *m.FirstCounter)
	assert.Equal(t, 2, *m.LastCounter)
	assert.Equal(t, 2, *m.CounterSpan)
}

func TestSummarize_CounterSpanWrapsAroundModulo(t *testing.T) {
	s := domain.Session{ID: "run1", ExpectedCount: 10, Records: []domain.PacketRecord{
		rec(65534, 1000, -60),
		rec(1, 2000, -61),
	}}

	m := Summarize(s)
	// 65534, 65535, 0, 1 -> 4 positions.
	assert.Equal(t, 4, *m.CounterSpan)
}

func TestSeries_SkipsRecordsMissingEitherField(t *testing.T) {
	s := domain.Session{ID: "run1", Records: []domain.PacketRecord{
		rec(2, 2000, -62),
		rec(1, 1000, -61),
		{TXUnixMs: int64Ptr(1500), RSSIDbm: intPtr(-70)}, // no counter
		{TXUnixMs: int64Ptr(2500), TXCounter: intPtr(3)}, // no rssi
	}}

	view := Series(s)
	assert.Equal(t, "run1", view.Label)
	assert.Equal(t, []int{1, 2}, view.Counters)
	assert.Equal(t, []int{-61, -62}, view.RSSIs)
}
