package reporting

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/blescope/blescope/internal/core/domain"
)

// PDFExporter renders session summaries and the bar views to PDF. It is
// one of the opaque sinks of the analysis pipeline: it consumes labeled
// scalars and series and owns all layout decisions.
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportReport generates a PDF with one summary block per session plus
// the mean-RSSI and loss/received bar views when present.
func (e *PDFExporter) ExportReport(summaries []SessionSummary, meanBars *domain.BarView, lossBars *domain.LossReceivedView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf)
	e.addSummaries(pdf, summaries)

	if meanBars != nil {
		e.addBarChart(pdf, meanBars.Title, meanBars.Bars)
	}
	if lossBars != nil {
		e.addBarChart(pdf, fmt.Sprintf("%s (out of %d sent)", lossBars.Loss.Title, lossBars.Expected), lossBars.Loss.Bars)
		e.addBarChart(pdf, fmt.Sprintf("%s (out of %d sent)", lossBars.Received.Title, lossBars.Expected), lossBars.Received.Bars)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// SessionSummary is one labeled metrics block for the report.
type SessionSummary struct {
	Label   string
	Metrics domain.SessionMetrics
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 12, "BLE Beacon Session Report", "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (e *PDFExporter) addSummaries(pdf *gofpdf.Fpdf, summaries []SessionSummary) {
	for _, s := range summaries {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, s.Label, "", 1, "L", false, 0, "")

		pdf.SetFont("Courier", "", 9)
		pdf.SetTextColor(60, 60, 60)

		m := s.Metrics
		if m.PacketCount == 0 {
			pdf.CellFormat(0, 5, "No packets found.", "", 1, "L", false, 0, "")
			pdf.Ln(3)
			continue
		}

		lines := []string{
			fmt.Sprintf("Packets:            %d", m.PacketCount),
			fmt.Sprintf("Counter range:      %s -> %s (expected ~%d)", formatOptInt(m.FirstCounter), formatOptInt(m.LastCounter), m.ExpectedCount),
			fmt.Sprintf("Approx loss:        %d packets (~%.2f%%)", m.LossCount, m.LossPct),
			fmt.Sprintf("TX time span:       %.2f s", m.SpanSeconds),
			fmt.Sprintf("RSSI mean/min/max:  %.2f dBm / %s / %s", m.MeanRSSI, formatOptInt(m.MinRSSI), formatOptInt(m.MaxRSSI)),
			fmt.Sprintf("Delta mean/min/max: %.2f ms / %s / %s", m.MeanDelta, formatOptInt64(m.MinDelta), formatOptInt64(m.MaxDelta)),
		}
		for _, line := range lines {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
}

// addBarChart draws a simple horizontal bar chart. Bar lengths scale
// within the value range, so for dBm values the strongest (least
// negative) signal reads as the longest bar.
func (e *PDFExporter) addBarChart(pdf *gofpdf.Fpdf, title string, bars []domain.Bar) {
	if len(bars) == 0 {
		return
	}

	const (
		labelWidth = 70.0
		chartWidth = 100.0
		barHeight  = 6.0
	)

	if pdf.GetY() > 240 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)

	minVal, maxVal := bars[0].Value, bars[0].Value
	for _, b := range bars {
		minVal = math.Min(minVal, b.Value)
		maxVal = math.Max(maxVal, b.Value)
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}

	pdf.SetFont("Arial", "", 8)
	for _, b := range bars {
		frac := (b.Value - minVal) / span
		// Keep a visible sliver for the smallest bar.
		width := 4 + frac*(chartWidth-4)

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(labelWidth, barHeight, b.Label, "", 0, "L", false, 0, "")

		pdf.SetFillColor(0, 102, 204)
		pdf.Rect(pdf.GetX(), pdf.GetY()+1, width, barHeight-2, "F")

		pdf.SetXY(pdf.GetX()+width+2, pdf.GetY())
		pdf.CellFormat(0, barHeight, b.Annotation, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
