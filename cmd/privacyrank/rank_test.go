package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/privacyrank/internal/provider"
)

// TestRankCmd tests ranking the catalog.
func TestRankCmd(t *testing.T) {
	t.Parallel()

	t.Run("sample data", func(t *testing.T) {
		t.Parallel()

		out, _, err := runCLI(t, "rank", "--no-save")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"RANKING",
			"Best privacy:   china-scooter.ru (920)",
			"Worst privacy:  netbk.co.jp (270)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q\n%s", want, out)
			}
		}
		if strings.Contains(out, "Selected Site:") {
			t.Errorf("rank must not select a site\n%s", out)
		}
	})

	t.Run("export writes a readable catalog", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "sites.yaml")
		if _, _, err := runCLI(t, "rank", "--no-save", "--export", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("export file missing: %v", err)
		}
		c, err := provider.ParseCatalog(data)
		if err != nil {
			t.Fatalf("exported catalog does not parse: %v\n%s", err, data)
		}
		if c.Len() != len(provider.SampleRecords()) {
			t.Errorf("expected %d sites, got %d", len(provider.SampleRecords()), c.Len())
		}
		if r, ok := c.Get("google.ca"); !ok || r.Privacy != 606 || r.Security != 714 || r.LastScan != "Oct 18, 2025" {
			t.Errorf("unexpected google.ca: %+v", r)
		}

		out, _, err := runCLI(t, "analyze", "--no-save", "--catalog", path, "netbk.co.jp")
		if err != nil {
			t.Fatalf("exported catalog not usable: %v", err)
		}
		if !strings.Contains(out, "Risk:           High Risk") {
			t.Errorf("expected netbk.co.jp from the export\n%s", out)
		}
	})

	t.Run("export of a remote catalog", func(t *testing.T) {
		t.Parallel()

		srv := newBackend(t, nil)
		path := filepath.Join(t.TempDir(), "remote.yaml")
		if _, _, err := runCLI(t, "rank", "--no-save", "--remote", srv.URL, "--export", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c, err := provider.NewFile(path).Load(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if names := c.Names(); len(names) != 2 || names[0] != "google.ca" || names[1] != "tracker-heavy.com" {
			t.Errorf("expected backend order, got %v", names)
		}
	})
}
