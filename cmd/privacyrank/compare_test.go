package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/privacyrank/internal/provider"
)

// TestCompareCmd tests side-by-side comparison.
func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		out, _, err := runCLI(t, "compare", "--no-save", "google.ca", "facebook.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"PRIVACY RANK COMPARISON", "+156.0", "+34.0", "+95.0", "google.ca scores better overall."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		out, _, err := runCLI(t, "compare", "--no-save", "--json", "netbk.co.jp", "china-scooter.ru")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var doc struct {
			Kind       string `json:"kind"`
			Comparison struct {
				PrivacyDelta int     `json:"privacy_delta"`
				AverageDelta float64 `json:"average_delta"`
			} `json:"comparison"`
		}
		if err := json.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if doc.Kind != "comparison" || doc.Comparison.PrivacyDelta != -650 || doc.Comparison.AverageDelta != -535 {
			t.Errorf("unexpected comparison: %+v", doc)
		}
	})

	t.Run("unknown site", func(t *testing.T) {
		t.Parallel()

		out, _, err := runCLI(t, "compare", "--no-save", "google.ca", "nowhere.org")
		if !errors.Is(err, provider.ErrSiteNotFound) {
			t.Fatalf("expected ErrSiteNotFound, got %v", err)
		}
		if !strings.Contains(out, "nowhere.org: ERROR") {
			t.Errorf("expected failure in output\n%s", out)
		}
	})

	t.Run("needs two sites", func(t *testing.T) {
		t.Parallel()

		if _, _, err := runCLI(t, "compare", "--no-save", "google.ca"); err == nil {
			t.Error("expected argument error")
		}
	})
}
