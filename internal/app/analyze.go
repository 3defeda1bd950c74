package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blescope/blescope/internal/adapters/logparse"
	"github.com/blescope/blescope/internal/adapters/reporting"
	"github.com/blescope/blescope/internal/adapters/storage"
	"github.com/blescope/blescope/internal/config"
	"github.com/blescope/blescope/internal/core/domain"
	"github.com/blescope/blescope/internal/core/ports"
	"github.com/blescope/blescope/internal/core/services/analysis"
	"github.com/blescope/blescope/internal/core/services/export"
	"github.com/blescope/blescope/internal/telemetry"
)

// Analyzer drives the offline path: parse each log file into a session,
// summarize it, then produce the cross-session views and the configured
// export artifacts. The offline path is purely sequential and
// deterministic given the input text.
type Analyzer struct {
	Config *config.AnalyzeConfig
	Out    io.Writer

	exporter ports.RecordExporter
}

// NewAnalyzer creates an analyzer writing summaries to out.
func NewAnalyzer(cfg *config.AnalyzeConfig, out io.Writer) *Analyzer {
	telemetry.InitMetrics()
	return &Analyzer{Config: cfg, Out: out}
}

// Run processes all configured log paths. Missing files are skipped with
// a warning; no input producing records is not an error, the analyzer
// simply produces empty output.
func (a *Analyzer) Run(ctx context.Context) error {
	if a.Config.SQLitePath != "" {
		exporter, err := storage.NewSQLiteExporter(a.Config.SQLitePath)
		if err != nil {
			return fmt.Errorf("sqlite export init failed: %w", err)
		}
		a.exporter = exporter
		defer a.exporter.Close()
	}

	var results []analysis.SessionResult
	for _, path := range a.Config.LogPaths {
		res, ok := a.analyzeFile(ctx, path)
		if ok {
			results = append(results, res)
		}
	}

	a.writeViews(results)
	return nil
}

// analyzeFile parses one log file into a session and reports it.
func (a *Analyzer) analyzeFile(ctx context.Context, path string) (analysis.SessionResult, bool) {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("Skipping input file", "path", path, "error", err)
		return analysis.SessionResult{}, false
	}
	defer f.Close()

	label := sessionLabel(path)
	records, err := logparse.ParseReader(label, f)
	if err != nil {
		slog.Warn("Read error, keeping records parsed so far", "path", path, "error", err)
	}

	session := domain.Session{
		ID:            label,
		Records:       records,
		ExpectedCount: a.Config.ExpectedCount,
	}
	metrics := analysis.Summarize(session)
	reporting.WriteSummary(a.Out, label, metrics)

	if a.Config.CSV {
		if err := a.writeCSV(path, records); err != nil {
			slog.Warn("CSV export failed", "path", path, "error", err)
		}
	}
	if a.exporter != nil {
		if err := a.exporter.SaveSession(ctx, session, a.Config.TXDeviceName); err != nil {
			slog.Warn("SQLite export failed", "session", label, "error", err)
		}
	}

	return analysis.SessionResult{Session: session, Metrics: metrics}, true
}

// writeViews produces the cross-session projections and, when
// configured, the PDF report consuming them.
func (a *Analyzer) writeViews(results []analysis.SessionResult) {
	combined := analysis.CombinedIndexView(results, a.Config.GapUnits)
	if combined != nil {
		fmt.Fprintf(a.Out, "Combined index view: %d sessions, gap %d\n", len(combined.Segments), combined.GapUnits)
	}
	grid := analysis.HistogramGridView(results)
	if grid != nil {
		fmt.Fprintf(a.Out, "Histogram grid: %d sessions on %dx%d\n", len(grid.Cells), grid.Rows, grid.Cols)
	}

	meanBars := analysis.MeanRSSIBars(results)
	lossBars := analysis.LossReceivedBars(results)

	if a.Config.PDFPath == "" {
		return
	}

	var summaries []reporting.SessionSummary
	for _, res := range results {
		summaries = append(summaries, reporting.SessionSummary{Label: res.Session.ID, Metrics: res.Metrics})
	}

	pdfBytes, err := reporting.NewPDFExporter().ExportReport(summaries, meanBars, lossBars)
	if err != nil {
		slog.Warn("PDF report failed", "error", err)
		return
	}
	if err := os.WriteFile(a.Config.PDFPath, pdfBytes, 0644); err != nil {
		slog.Warn("PDF write failed", "path", a.Config.PDFPath, "error", err)
		return
	}
	fmt.Fprintf(a.Out, "PDF report saved to: %s\n", a.Config.PDFPath)
}

func (a *Analyzer) writeCSV(logPath string, records []domain.PacketRecord) error {
	csvPath := strings.TrimSuffix(logPath, filepath.Ext(logPath)) + ".csv"
	f, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteCSV(f, records, a.Config.TXDeviceName); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "CSV saved: %s\n", csvPath)
	return nil
}

// sessionLabel derives the session id from the file name, without
// directory or extension.
func sessionLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
