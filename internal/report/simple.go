package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/site"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for the terminal.
// Risk levels are colored only when color is enabled.
type SimpleWriter struct {
	baseWriter

	useColor bool
	verbose  bool

	levelColors map[model.RiskLevel]*color.Color
	bold        *color.Color
	warn        *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables ANSI colors. Callers decide based on the terminal.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.useColor = enabled
	}
}

// WithVerbose adds color tokens and per-step details to the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		levelColors: map[model.RiskLevel]*color.Color{
			model.RiskGood:     color.New(color.FgGreen),
			model.RiskModerate: color.New(color.FgYellow),
			model.RiskHigh:     color.New(color.FgRed, color.Bold),
		},
		bold: color.New(color.Bold),
		warn: color.New(color.FgYellow),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, c := range w.allColors() {
		if w.useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return w
}

func (w *SimpleWriter) allColors() []*color.Color {
	out := []*color.Color{w.bold, w.warn}
	for _, c := range w.levelColors {
		out = append(out, c)
	}
	return out
}

// level renders a risk level label, colored when enabled.
func (w *SimpleWriter) level(l model.RiskLevel) string {
	c, ok := w.levelColors[l]
	if !ok {
		return l.Label()
	}
	return c.Sprint(l.Label())
}

// WriteDashboard outputs the dashboard in human-readable format.
func (w *SimpleWriter) WriteDashboard(d *model.Dashboard) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, "PRIVACY RANK DASHBOARD")
	if d.Warning != "" {
		sb.WriteString(w.warn.Sprint("Warning: "+d.Warning) + "\n\n")
	}
	if d.Selected != nil {
		w.writeSelected(&sb, d.Selected, d.Scale)
	}
	if err := w.writeRanking(&sb, d); err != nil {
		return 0, err
	}
	w.writeExtremes(&sb, d)
	w.writeFooter(&sb, d.Source)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, title string) {
	pad := (ruleWidth - len(title)) / 2
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString(strings.Repeat(" ", max(pad, 0)) + w.bold.Sprint(title) + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")
}

func (w *SimpleWriter) writeSelected(sb *strings.Builder, a *model.Analysis, scale model.Scale) {
	max := scale.Max()
	fmt.Fprintf(sb, "Selected Site:  %s\n", site.Display(a.DisplayName()))
	if a.Complete() {
		fmt.Fprintf(sb, "Privacy:        %s / %d\n", formatScore(a.Record.Privacy, scale), max)
		fmt.Fprintf(sb, "Security:       %s / %d\n", formatScore(a.Record.Security, scale), max)
		fmt.Fprintf(sb, "Average:        %s\n", formatAverage(a.Classification.Average, scale))

		risk := w.level(a.Classification.Level)
		if w.verbose {
			risk += fmt.Sprintf(" (%s, gauge %d°)", a.Classification.ColorToken, a.Classification.GaugeAngle)
		}
		fmt.Fprintf(sb, "Risk:           %s\n", risk)
		fmt.Fprintf(sb, "Last Scan:      %s\n", orNA(a.Record.LastScan))
		if a.Record.Trackers > 0 {
			fmt.Fprintf(sb, "Trackers:       %s\n", humanize.Comma(int64(a.Record.Trackers)))
		}
		source := a.Source
		if a.Added {
			source += " (added to catalog)"
		}
		fmt.Fprintf(sb, "Source:         %s\n", source)
	}
	fmt.Fprintf(sb, "Status:         %s\n", analysisStatus(a))
	if w.verbose && len(a.PerformedSteps) > 0 {
		fmt.Fprintf(sb, "Steps:          %s\n", strings.Join(a.PerformedSteps, " -> "))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRanking(sb *strings.Builder, d *model.Dashboard) error {
	w.writeSection(sb, "RANKING")

	if len(d.Sites) == 0 {
		sb.WriteString("  No sites in catalog\n\n")
		return nil
	}

	table := tablewriter.NewWriter(sb)
	table.Header("Rank", "Site", "Privacy", "Security", "Average", "Risk", "Last Scan")
	for i, s := range d.Ranked() {
		row := []string{
			humanize.Ordinal(i + 1),
			site.Display(s.Record.Name),
			formatScore(s.Record.Privacy, d.Scale),
			formatScore(s.Record.Security, d.Scale),
			formatAverage(s.Classification.Average, d.Scale),
			w.level(s.Classification.Level),
			orNA(s.Record.LastScan),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to build ranking table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render ranking table: %w", err)
	}
	sb.WriteString("\n")
	return nil
}

func (w *SimpleWriter) writeExtremes(sb *strings.Builder, d *model.Dashboard) {
	extreme := func(r model.SiteRecord) string {
		if r.IsSentinel() {
			return model.NotAvailable
		}
		return fmt.Sprintf("%s (%s)", site.Display(r.Name), formatScore(r.Privacy, d.Scale))
	}
	fmt.Fprintf(sb, "Best privacy:   %s\n", extreme(d.Best))
	fmt.Fprintf(sb, "Worst privacy:  %s\n", extreme(d.Worst))

	parts := make([]string, 0, len(model.AllRiskLevels))
	for _, l := range model.AllRiskLevels {
		parts = append(parts, fmt.Sprintf("%s %d", w.level(l), d.Distribution.Get(l)))
	}
	fmt.Fprintf(sb, "Distribution:   %s\n\n", strings.Join(parts, ", "))
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder, source string) {
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	if source != "" {
		fmt.Fprintf(sb, "Data source: %s\n", source)
	}
	sb.WriteString("Report generated by privacyrank\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
}

// WriteComparison outputs two analyses side by side.
func (w *SimpleWriter) WriteComparison(c *model.Comparison) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, "PRIVACY RANK COMPARISON")

	left, right := c.Left, c.Right
	for _, a := range []*model.Analysis{left, right} {
		if !a.Complete() {
			fmt.Fprintf(&sb, "%s: %s\n", a.DisplayName(), analysisStatus(a))
		}
	}
	if !left.Complete() || !right.Complete() {
		sb.WriteString("\n")
		w.writeFooter(&sb, "")
		return io.WriteString(w.output, sb.String())
	}

	table := tablewriter.NewWriter(&sb)
	table.Header("Metric", site.Display(left.Site), site.Display(right.Site), "Difference")
	rows := [][]string{
		{"Privacy", formatScore(left.Record.Privacy, c.Scale), formatScore(right.Record.Privacy, c.Scale), formatDelta(float64(c.PrivacyDelta), c.Scale)},
		{"Security", formatScore(left.Record.Security, c.Scale), formatScore(right.Record.Security, c.Scale), formatDelta(float64(c.SecurityDelta), c.Scale)},
		{"Average", formatAverage(left.Classification.Average, c.Scale), formatAverage(right.Classification.Average, c.Scale), formatDelta(c.AverageDelta, c.Scale)},
		{"Risk", w.level(left.Classification.Level), w.level(right.Classification.Level), ""},
		{"Last Scan", orNA(left.Record.LastScan), orNA(right.Record.LastScan), ""},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return 0, fmt.Errorf("failed to build comparison table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return 0, fmt.Errorf("failed to render comparison table: %w", err)
	}
	sb.WriteString("\n")

	if leader := c.Leader(); leader != "" {
		fmt.Fprintf(&sb, "%s scores better overall.\n\n", w.bold.Sprint(site.Display(leader)))
	} else {
		sb.WriteString("Both sites score the same overall.\n\n")
	}
	w.writeFooter(&sb, "")

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs stored analyses, newest first.
func (w *SimpleWriter) WriteHistory(siteName string, records []database.AnalysisRecord) (int, error) {
	var sb strings.Builder

	title := "ANALYSIS HISTORY"
	if siteName != "" {
		title += ": " + site.Display(siteName)
	}
	w.writeHeader(&sb, title)

	if len(records) == 0 {
		sb.WriteString("  No analyses recorded\n\n")
		w.writeFooter(&sb, "")
		return io.WriteString(w.output, sb.String())
	}

	table := tablewriter.NewWriter(&sb)
	table.Header("When", "Site", "Privacy", "Security", "Average", "Risk", "Source")
	for _, r := range records {
		row := []string{
			humanize.Time(r.AnalyzedAt),
			site.Display(r.Site),
			strconv.Itoa(r.Privacy),
			strconv.Itoa(r.Security),
			fmt.Sprintf("%.1f", r.Average),
			w.level(r.Level),
			r.Source,
		}
		if err := table.Append(row); err != nil {
			return 0, fmt.Errorf("failed to build history table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return 0, fmt.Errorf("failed to render history table: %w", err)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s recorded\n\n", pluralAnalyses(len(records)))
	w.writeFooter(&sb, "")

	return io.WriteString(w.output, sb.String())
}

func pluralAnalyses(n int) string {
	if n == 1 {
		return "1 analysis"
	}
	return humanize.Comma(int64(n)) + " analyses"
}
