package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/provider"
	"github.com/nao1215/privacyrank/internal/score"
)

func classified(name string, privacy, security int) *model.Analysis {
	r := model.SiteRecord{Name: name, Privacy: privacy, Security: security, LastScan: "Oct 18, 2025"}
	c := score.ClassifyRecord(r)
	return &model.Analysis{
		Input:          name,
		Site:           name,
		Record:         r,
		Classification: &c,
		Source:         model.SourceCatalog,
	}
}

func testDashboard(scale model.Scale) *model.Dashboard {
	catalog := model.NewCatalog(provider.SampleRecords()...)
	return score.Summarize(catalog, score.SummaryOptions{
		Selected: classified("google.ca", 606, 714),
		Scale:    scale,
		Source:   "sample",
	})
}

func testHistory() []database.AnalysisRecord {
	return []database.AnalysisRecord{
		{ID: "b", Site: "google.ca", Privacy: 606, Security: 714, Average: 660, Level: model.RiskModerate, Source: "catalog", AnalyzedAt: time.Now().Add(-time.Hour)},
		{ID: "a", Site: "google.ca", Privacy: 720, Security: 714, Average: 717, Level: model.RiskGood, Source: "remote", AnalyzedAt: time.Now().Add(-48 * time.Hour)},
	}
}

// TestSimpleWriter tests the terminal writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("dashboard", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDashboard(testDashboard(model.ScaleRank)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"PRIVACY RANK DASHBOARD",
			"Selected Site:  google.ca",
			"Privacy:        606 / 1000",
			"Average:        660.0",
			"Risk:           Moderate",
			"china-scooter.ru",
			"netbk.co.jp",
			"1st",
			"4th",
			"Best privacy:   china-scooter.ru (920)",
			"Worst privacy:  netbk.co.jp (270)",
			"Data source: sample",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\n%s", want, out)
			}
		}
		if strings.Contains(out, "\x1b[") {
			t.Error("expected no ANSI escapes without color")
		}
	})

	t.Run("ranking order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDashboard(testDashboard(model.ScaleRank)); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		ranking := out[strings.Index(out, "RANKING"):strings.Index(out, "Best privacy")]
		order := []string{"china-scooter.ru", "google.ca", "facebook.com", "netbk.co.jp"}
		prev := -1
		for _, name := range order {
			i := strings.Index(ranking, name)
			if i <= prev {
				t.Fatalf("expected %s after previous site in ranking\n%s", name, ranking)
			}
			prev = i
		}
	})

	t.Run("percentage scale", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDashboard(testDashboard(model.ScalePercentage)); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "Privacy:        60 / 100") {
			t.Errorf("expected percentage scores\n%s", out)
		}
		if !strings.Contains(out, "Average:        66.0") {
			t.Errorf("expected percentage average\n%s", out)
		}
	})

	t.Run("warning and empty catalog", func(t *testing.T) {
		t.Parallel()

		d := score.Summarize(model.NewCatalog(), score.SummaryOptions{Warning: provider.FallbackWarning})
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDashboard(d); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Warning: " + provider.FallbackWarning, "No sites in catalog", "Best privacy:   N/A"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q\n%s", want, out)
			}
		}
	})

	t.Run("failed selection", func(t *testing.T) {
		t.Parallel()

		d := testDashboard(model.ScaleRank)
		d.Selected = &model.Analysis{Input: "nope.example", Error: errors.New("site not in sample data")}
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDashboard(d); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Status:         ERROR - site not in sample data") {
			t.Errorf("expected error status\n%s", buf.String())
		}
	})

	t.Run("verbose shows color token", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteDashboard(testDashboard(model.ScaleRank)); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), model.ColorModerate) {
			t.Errorf("expected color token in verbose output\n%s", buf.String())
		}
	})

	t.Run("color", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithColor(true)).WriteDashboard(testDashboard(model.ScaleRank)); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\x1b[") {
			t.Error("expected ANSI escapes with color enabled")
		}
	})

	t.Run("comparison", func(t *testing.T) {
		t.Parallel()

		c := model.NewComparison(classified("china-scooter.ru", 920, 880), classified("facebook.com", 450, 680), model.ScaleRank)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(c); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"+470.0", "+200.0", "+335.0", "china-scooter.ru scores better overall."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q\n%s", want, out)
			}
		}
	})

	t.Run("comparison tie", func(t *testing.T) {
		t.Parallel()

		c := model.NewComparison(classified("a.com", 600, 600), classified("b.com", 500, 700), model.ScaleRank)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(c); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Both sites score the same overall.") {
			t.Errorf("expected tie message\n%s", buf.String())
		}
	})

	t.Run("comparison with failure", func(t *testing.T) {
		t.Parallel()

		failed := &model.Analysis{Input: "bad", TimedOut: true}
		c := model.NewComparison(classified("a.com", 600, 600), failed, model.ScaleRank)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(c); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "bad: TIMED OUT") {
			t.Errorf("expected timeout status\n%s", buf.String())
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory("google.ca", testHistory()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"ANALYSIS HISTORY: google.ca", "1 hour ago", "2 days ago", "2 analyses recorded"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q\n%s", want, out)
			}
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory("", nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No analyses recorded") {
			t.Errorf("unexpected output\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("dashboard", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("v1.2.3"))
		if _, err := w.WriteDashboard(testDashboard(model.ScaleRank)); err != nil {
			t.Fatal(err)
		}

		var doc struct {
			Version   string `json:"version"`
			Kind      string `json:"kind"`
			Dashboard struct {
				Sites []struct {
					Record struct {
						Name string `json:"name"`
					} `json:"record"`
					Classification struct {
						Level      string  `json:"level"`
						ColorToken string  `json:"color_token"`
						Average    float64 `json:"average"`
					} `json:"classification"`
				} `json:"sites"`
				Best struct {
					Name string `json:"name"`
				} `json:"best"`
				Distribution model.LevelCounts `json:"distribution"`
			} `json:"dashboard"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if doc.Version != "v1.2.3" || doc.Kind != KindDashboard {
			t.Errorf("unexpected envelope: %+v", doc)
		}
		if len(doc.Dashboard.Sites) != 4 {
			t.Fatalf("expected 4 sites, got %d", len(doc.Dashboard.Sites))
		}
		first := doc.Dashboard.Sites[0]
		if first.Classification.Level != "Moderate" || first.Classification.ColorToken != model.ColorModerate || first.Classification.Average != 660 {
			t.Errorf("unexpected first site: %+v", first)
		}
		if doc.Dashboard.Best.Name != "china-scooter.ru" {
			t.Errorf("unexpected best: %s", doc.Dashboard.Best.Name)
		}
		if doc.Dashboard.Distribution.Total() != 4 {
			t.Errorf("unexpected distribution: %+v", doc.Dashboard.Distribution)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact single-line output")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteHistory("google.ca", testHistory()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"kind\": \"history\"") {
			t.Errorf("expected indented output\n%s", buf.String())
		}
	})

	t.Run("empty history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory("", nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"analyses":[]`) {
			t.Errorf("expected empty array\n%s", buf.String())
		}
	})

	t.Run("comparison", func(t *testing.T) {
		t.Parallel()

		c := model.NewComparison(classified("a.com", 800, 800), classified("b.com", 400, 400), model.ScaleRank)
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteComparison(c); err != nil {
			t.Fatal(err)
		}
		var doc Document
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Comparison == nil || doc.Comparison.AverageDelta != 400 {
			t.Errorf("unexpected comparison: %+v", doc.Comparison)
		}
	})
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("dashboard", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteDashboard(testDashboard(model.ScaleRank)); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{
			"# Privacy Rank Dashboard",
			"## Selected Site",
			"## Ranking",
			"```mermaid",
			"pie",
			"[!CAUTION]",
			"Best privacy: china-scooter.ru (920)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q\n%s", want, out)
			}
		}
	})

	t.Run("alert follows worst level", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name    string
			records []model.SiteRecord
			want    string
		}{
			{"all good", []model.SiteRecord{{Name: "a.com", Privacy: 900, Security: 900}}, "[!TIP]"},
			{"moderate", []model.SiteRecord{{Name: "a.com", Privacy: 900, Security: 900}, {Name: "b.com", Privacy: 600, Security: 600}}, "[!WARNING]"},
			{"empty", nil, "[!NOTE]"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				d := score.Summarize(model.NewCatalog(tc.records...), score.SummaryOptions{})
				var buf bytes.Buffer
				if _, err := NewMarkdownWriter(&buf).WriteDashboard(d); err != nil {
					t.Fatal(err)
				}
				if !strings.Contains(buf.String(), tc.want) {
					t.Errorf("expected %s\n%s", tc.want, buf.String())
				}
			})
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory("google.ca", testHistory()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "# Analysis History: google.ca") {
			t.Errorf("unexpected output\n%s", buf.String())
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))
	n, err := mw.WriteDashboard(testDashboard(model.ScaleRank))
	if err != nil {
		t.Fatal(err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to produce output")
	}
}

// TestFormatHelpers tests score formatting.
func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	if got := formatScore(606, model.ScalePercentage); got != "60" {
		t.Errorf("formatScore: got %s", got)
	}
	if got := formatDelta(-35, model.ScaleRank); got != "-35.0" {
		t.Errorf("formatDelta: got %s", got)
	}
	if got := orNA(""); got != model.NotAvailable {
		t.Errorf("orNA: got %s", got)
	}
	if got := analysisStatus(&model.Analysis{TimedOut: true}); got != "TIMED OUT" {
		t.Errorf("analysisStatus: got %s", got)
	}
}
