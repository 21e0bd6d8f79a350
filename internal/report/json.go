package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
// Every document is wrapped in a Document carrying the tool version.
type JSONWriter struct {
	baseWriter

	version string

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the version recorded in every document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Document is the top-level JSON object. Exactly one payload field is set.
type Document struct {
	Version    string            `json:"version,omitempty"`
	Kind       string            `json:"kind"`
	Dashboard  *model.Dashboard  `json:"dashboard,omitempty"`
	Comparison *model.Comparison `json:"comparison,omitempty"`
	History    *HistoryDocument  `json:"history,omitempty"`
}

// HistoryDocument is the JSON form of stored analyses.
type HistoryDocument struct {
	Site     string                    `json:"site,omitempty"`
	Analyses []database.AnalysisRecord `json:"analyses"`
}

// Document kinds.
const (
	KindDashboard  = "dashboard"
	KindComparison = "comparison"
	KindHistory    = "history"
)

// WriteDashboard outputs the dashboard as JSON.
func (w *JSONWriter) WriteDashboard(d *model.Dashboard) (int, error) {
	return w.writeJSON(Document{Version: w.version, Kind: KindDashboard, Dashboard: d})
}

// WriteComparison outputs the comparison as JSON.
func (w *JSONWriter) WriteComparison(c *model.Comparison) (int, error) {
	return w.writeJSON(Document{Version: w.version, Kind: KindComparison, Comparison: c})
}

// WriteHistory outputs stored analyses as JSON.
func (w *JSONWriter) WriteHistory(site string, records []database.AnalysisRecord) (int, error) {
	if records == nil {
		records = []database.AnalysisRecord{}
	}
	return w.writeJSON(Document{
		Version: w.version,
		Kind:    KindHistory,
		History: &HistoryDocument{Site: site, Analyses: records},
	})
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
