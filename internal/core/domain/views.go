package domain

// The view types below are pure projections handed to a sink (terminal,
// PDF, websocket). They never alias or mutate session data.

// SeriesView is one session's counter/RSSI series in temporal order.
type SeriesView struct {
	Label    string `json:"label"`
	Counters []int  `json:"counters"`
	RSSIs    []int  `json:"rssis"`
}

// CombinedSegment is one session's slice of the combined index view. The
// Indices are virtual positions on a shared axis, unrelated to any real
// counter or timestamp.
type CombinedSegment struct {
	Label    string `json:"label"`
	Packets  int    `json:"packets"`
	Expected int    `json:"expected"`
	Indices  []int  `json:"indices"`
	RSSIs    []int  `json:"rssis"`
}

// CombinedSeries concatenates per-session series along a virtual index
// axis with GapUnits empty positions between sessions.
type CombinedSeries struct {
	GapUnits int               `json:"gap_units"`
	Segments []CombinedSegment `json:"segments"`
}

// HistogramCell is one session's unordered RSSI sample set.
type HistogramCell struct {
	Label string `json:"label"`
	RSSIs []int  `json:"rssis"`
}

// HistogramGrid lays the cells out on a rows x cols grid sized
// automatically from the cell count. len(Cells) may be smaller than
// Rows*Cols; trailing grid positions are unused.
type HistogramGrid struct {
	Rows  int             `json:"rows"`
	Cols  int             `json:"cols"`
	Cells []HistogramCell `json:"cells"`
}

// Bar is one labeled scalar with an optional annotation rendered next to
// the bar.
type Bar struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Annotation string  `json:"annotation,omitempty"`
}

// BarView is a titled bar series.
type BarView struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// LossReceivedView pairs the loss-percentage bars with their complement
// (received percentage). The two series are index aligned per session.
type LossReceivedView struct {
	Expected int     `json:"expected"`
	Loss     BarView `json:"loss"`
	Received BarView `json:"received"`
}

// LiveSnapshot is a consistent point-in-time copy of the live buffer,
// produced on a fixed cadence for redisplay.
type LiveSnapshot struct {
	SessionID string `json:"session_id"`
	Counters  []int  `json:"counters"`
	RSSIs     []int  `json:"rssis"`
}
