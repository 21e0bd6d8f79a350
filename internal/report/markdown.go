package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/site"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// levelBadge prefixes a label with a colored marker.
func levelBadge(l model.RiskLevel) string {
	switch l {
	case model.RiskGood:
		return "🟢 " + l.Label()
	case model.RiskModerate:
		return "🟠 " + l.Label()
	case model.RiskHigh:
		return "🔴 " + l.Label()
	default:
		return l.Label()
	}
}

// WriteDashboard outputs the dashboard in Markdown format.
func (w *MarkdownWriter) WriteDashboard(d *model.Dashboard) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Privacy Rank Dashboard")
	md.PlainText("")
	if d.Warning != "" {
		md.Warningf("%s", d.Warning)
		md.PlainText("")
	}

	if d.Selected != nil {
		w.writeSelected(md, d.Selected, d.Scale)
	}
	w.writeRanking(md, d)
	w.writeDistribution(md, d)
	w.writeFooter(md, d.Source)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSelected(md *markdown.Markdown, a *model.Analysis, scale model.Scale) {
	md.H2("Selected Site")
	md.PlainText("")

	rows := [][]string{{"Site", "`" + site.Display(a.DisplayName()) + "`"}}
	if a.Complete() {
		max := strconv.Itoa(scale.Max())
		rows = append(rows,
			[]string{"Privacy", formatScore(a.Record.Privacy, scale) + " / " + max},
			[]string{"Security", formatScore(a.Record.Security, scale) + " / " + max},
			[]string{"Average", formatAverage(a.Classification.Average, scale)},
			[]string{"Risk", levelBadge(a.Classification.Level)},
			[]string{"Last Scan", orNA(a.Record.LastScan)},
			[]string{"Source", a.Source},
		)
	}
	rows = append(rows, []string{"Status", analysisStatus(a)})

	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	if a.Added {
		md.Note("This site was analyzed by the backend and added to the catalog.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, d *model.Dashboard) {
	md.H2("Ranking")
	md.PlainText("")

	if len(d.Sites) == 0 {
		md.PlainText("No sites in catalog.")
		md.PlainText("")
		return
	}

	ranked := d.Ranked()
	rows := make([][]string, len(ranked))
	for i, s := range ranked {
		rows[i] = []string{
			humanize.Ordinal(i + 1),
			site.Display(s.Record.Name),
			formatScore(s.Record.Privacy, d.Scale),
			formatScore(s.Record.Security, d.Scale),
			formatAverage(s.Classification.Average, d.Scale),
			levelBadge(s.Classification.Level),
			orNA(s.Record.LastScan),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Site", "Privacy", "Security", "Average", "Risk", "Last Scan"},
		Rows:   rows,
	})
	md.PlainText("")

	extreme := func(r model.SiteRecord) string {
		if r.IsSentinel() {
			return model.NotAvailable
		}
		return fmt.Sprintf("%s (%s)", site.Display(r.Name), formatScore(r.Privacy, d.Scale))
	}
	md.BulletList(
		"Best privacy: "+extreme(d.Best),
		"Worst privacy: "+extreme(d.Worst),
	)
	md.PlainText("")
}

func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, d *model.Dashboard) {
	md.H2("Risk Distribution")
	md.PlainText("")

	rows := make([][]string, 0, len(model.AllRiskLevels)+1)
	for _, l := range model.AllRiskLevels {
		rows = append(rows, []string{levelBadge(l), strconv.Itoa(d.Distribution.Get(l))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(d.Distribution.Total()) + "**"})
	md.Table(markdown.TableSet{Header: []string{"Risk", "Sites"}, Rows: rows})
	md.PlainText("")

	if d.Distribution.Total() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Risk Distribution"),
			piechart.WithShowData(true),
		)
		for _, l := range model.AllRiskLevels {
			if n := d.Distribution.Get(l); n > 0 {
				chart.LabelAndIntValue(l.Label(), uint64(n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	w.writeAlert(md, d)
}

// writeAlert picks the alert for the worst level present.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, d *model.Dashboard) {
	worst, ok := d.WorstLevel()
	switch {
	case !ok:
		md.Note("The catalog is empty.")
	case worst == model.RiskHigh:
		md.Cautionf("%d site(s) are high risk.", d.Distribution.HighRisk)
	case worst == model.RiskModerate:
		md.Warningf("%d site(s) have moderate risk.", d.Distribution.Moderate)
	default:
		md.Tip("Every site in the catalog scores well.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, source string) {
	md.HorizontalRule()
	md.PlainText("")
	if source != "" {
		md.PlainTextf("Data source: `%s`", source)
		md.PlainText("")
	}
	md.PlainText("*Report generated by [privacyrank](https://github.com/nao1215/privacyrank)*")
}

// WriteComparison outputs two analyses side by side in Markdown format.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	left, right := c.Left, c.Right
	md.H1(fmt.Sprintf("Comparison: %s vs %s", site.Display(left.DisplayName()), site.Display(right.DisplayName())))
	md.PlainText("")

	if !left.Complete() || !right.Complete() {
		for _, a := range []*model.Analysis{left, right} {
			if !a.Complete() {
				md.Cautionf("%s: %s", a.DisplayName(), analysisStatus(a))
				md.PlainText("")
			}
		}
		w.writeFooter(md, "")
		return len(md.String()), md.Build()
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", site.Display(left.Site), site.Display(right.Site), "Difference"},
		Rows: [][]string{
			{"Privacy", formatScore(left.Record.Privacy, c.Scale), formatScore(right.Record.Privacy, c.Scale), formatDelta(float64(c.PrivacyDelta), c.Scale)},
			{"Security", formatScore(left.Record.Security, c.Scale), formatScore(right.Record.Security, c.Scale), formatDelta(float64(c.SecurityDelta), c.Scale)},
			{"Average", formatAverage(left.Classification.Average, c.Scale), formatAverage(right.Classification.Average, c.Scale), formatDelta(c.AverageDelta, c.Scale)},
			{"Risk", levelBadge(left.Classification.Level), levelBadge(right.Classification.Level), "-"},
		},
	})
	md.PlainText("")

	if leader := c.Leader(); leader != "" {
		md.Tip(fmt.Sprintf("%s scores better overall.", site.Display(leader)))
	} else {
		md.Note("Both sites score the same overall.")
	}
	md.PlainText("")
	w.writeFooter(md, "")

	return len(md.String()), md.Build()
}

// WriteHistory outputs stored analyses in Markdown format.
func (w *MarkdownWriter) WriteHistory(siteName string, records []database.AnalysisRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	title := "Analysis History"
	if siteName != "" {
		title += ": " + site.Display(siteName)
	}
	md.H1(title)
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No analyses recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = []string{
				r.AnalyzedAt.UTC().Format("2006-01-02 15:04:05 MST"),
				site.Display(r.Site),
				strconv.Itoa(r.Privacy),
				strconv.Itoa(r.Security),
				fmt.Sprintf("%.1f", r.Average),
				levelBadge(r.Level),
				r.Source,
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Analyzed At", "Site", "Privacy", "Security", "Average", "Risk", "Source"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	w.writeFooter(md, "")

	return len(md.String()), md.Build()
}
