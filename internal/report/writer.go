package report

import (
	"fmt"
	"io"

	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/model"
)

// Writer defines the interface for report output.
// Implementations render the same views in different formats.
type Writer interface {
	// WriteDashboard outputs the catalog dashboard.
	WriteDashboard(d *model.Dashboard) (int, error)

	// WriteComparison outputs two analyses side by side.
	WriteComparison(c *model.Comparison) (int, error)

	// WriteHistory outputs stored analyses. site is empty for all sites.
	WriteHistory(site string, records []database.AnalysisRecord) (int, error)
}

// MultiWriter writes to multiple Writers in order and stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteDashboard outputs the dashboard to all configured Writers.
func (m *MultiWriter) WriteDashboard(d *model.Dashboard) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteDashboard(d) })
}

// WriteComparison outputs the comparison to all configured Writers.
func (m *MultiWriter) WriteComparison(c *model.Comparison) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteComparison(c) })
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(site string, records []database.AnalysisRecord) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(site, records) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// formatScore renders a rank score on the display scale.
func formatScore(v int, scale model.Scale) string {
	return fmt.Sprintf("%d", scale.FromRank(v))
}

// formatAverage renders a rank average on the display scale.
func formatAverage(v float64, scale model.Scale) string {
	return fmt.Sprintf("%.1f", scale.FromRankFloat(v))
}

// formatDelta renders a signed rank delta on the display scale.
func formatDelta(v float64, scale model.Scale) string {
	return fmt.Sprintf("%+.1f", scale.FromRankFloat(v))
}

// orNA substitutes the N/A marker for empty strings.
func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}

// analysisStatus summarizes the outcome of an analysis.
func analysisStatus(a *model.Analysis) string {
	switch {
	case a.TimedOut:
		return "TIMED OUT"
	case a.Failed():
		msg := a.ErrorMessage
		if msg == "" {
			msg = a.Error.Error()
		}
		return "ERROR - " + msg
	default:
		return "Complete"
	}
}
