package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blescope/blescope/internal/core/domain"
)

func resultFor(id string, expected int, records ...domain.PacketRecord) SessionResult {
	s := domain.Session{ID: id, ExpectedCount: expected, Records: records}
	return SessionResult{Session: s, Metrics: Summarize(s)}
}

func TestCombinedIndexView_OffsetsSegmentsByGap(t *testing.T) {
	a := resultFor("a", 3, rec(1, 1000, -60), rec(2, 1010, -61), rec(3, 1020, -62))
	b := resultFor("b", 2, rec(1, 2000, -70), rec(2, 2010, -71))

	view := CombinedIndexView([]SessionResult{a, b}, 5)
	require.NotNil(t, view)
	require.Len(t, view.Segments, 2)

	assert.Equal(t, []int{0, 1, 2}, view.Segments[0].Indices)
	assert.Equal(t, []int{-60, -61, -62}, view.Segments[0].RSSIs)
	// Second segment starts after the first plus the gap: 3 + 5 = 8.
	assert.Equal(t, []int{8, 9}, view.Segments[1].Indices)
	assert.Equal(t, 5, view.GapUnits)
}

func TestCombinedIndexView_SkipsEmptySessions(t *testing.T) {
	a := resultFor("a", 2, rec(1, 1000, -60))
	empty := resultFor("empty", 2)
	b := resultFor("b", 2, rec(1, 2000, -70))

	view := CombinedIndexView([]SessionResult{a, empty, b}, 5)
	require.NotNil(t, view)
	require.Len(t, view.Segments, 2)
	assert.Equal(t, "a", view.Segments[0].Label)
	assert.Equal(t, "b", view.Segments[1].Label)
	// The empty session also contributes no offset advance.
	assert.Equal(t, []int{6}, view.Segments[1].Indices)
}

func TestCombinedIndexView_NilBelowTwoSegments(t *testing.T) {
	a := resultFor("a", 2, rec(1, 1000, -60))

	assert.Nil(t, CombinedIndexView([]SessionResult{a}, 5))
	assert.Nil(t, CombinedIndexView(nil, 5))
}

func TestHistogramGridView_GridDimensions(t *testing.T) {
	var results []SessionResult
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		results = append(results, resultFor(id, 1, rec(1, 1000, -60)))
	}

	grid := HistogramGridView(results)
	require.NotNil(t, grid)
	// ceil(sqrt(5)) = 3 columns, ceil(5/3) = 2 rows.
	assert.Equal(t, 3, grid.Cols)
	assert.Equal(t, 2, grid.Rows)
	require.Len(t, grid.Cells, 5)
	assert.Equal(t, []int{-60}, grid.Cells[0].RSSIs)
}

func TestHistogramGridView_NilBelowTwoCells(t *testing.T) {
	a := resultFor("a", 1, rec(1, 1000, -60))
	empty := resultFor("empty", 1)

	assert.Nil(t, HistogramGridView([]SessionResult{a, empty}))
}

func TestMeanRSSIBars(t *testing.T) {
	a := resultFor("a", 4, rec(1, 1000, -50), rec(2, 1010, -70))
	empty := resultFor("empty", 4)

	view := MeanRSSIBars([]SessionResult{a, empty})
	require.NotNil(t, view)
	require.Len(t, view.Bars, 1)
	assert.Equal(t, "a (2/4)", view.Bars[0].Label)
	assert.InDelta(t, -60.0, view.Bars[0].Value, 1e-9)
	assert.Equal(t, "-60.00 dBm", view.Bars[0].Annotation)
}

func TestMeanRSSIBars_NilWhenNoData(t *testing.T) {
	empty := resultFor("empty", 4)
	assert.Nil(t, MeanRSSIBars([]SessionResult{empty}))
}

func TestLossReceivedBars(t *testing.T) {
	a := resultFor("a", 4, rec(1, 1000, -50), rec(2, 1010, -70), rec(3, 1020, -71))
	empty := resultFor("empty", 4)

	view := LossReceivedBars([]SessionResult{a, empty})
	require.NotNil(t, view)
	assert.Equal(t, 4, view.Expected)
	require.Len(t, view.Loss.Bars, 1)
	require.Len(t, view.Received.Bars, 1)

	assert.InDelta(t, 25.0, view.Loss.Bars[0].Value, 1e-9)
	assert.Equal(t, "1/4 (25.0%)", view.Loss.Bars[0].Annotation)
	assert.InDelta(t, 75.0, view.Received.Bars[0].Value, 1e-9)
	assert.Equal(t, "3/4 (75.0%)", view.Received.Bars[0].Annotation)
}
