package score

import "testing"

// TestCompositePrivacy tests the tracker based privacy score.
func TestCompositePrivacy(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		if got := CompositePrivacy(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("cleanest and dirtiest site", func(t *testing.T) {
		t.Parallel()

		metrics := []TrackerMetrics{
			{Name: "clean.org"},
			{
				Name:             "dirty.com",
				TotalTrackers:    40,
				AdTrackers:       12,
				Companies:        9.5,
				Tracked:          1,
				RequestsTracking: 30,
				Trackers:         14,
				RefererLeaked:    1,
			},
		}
		got := CompositePrivacy(metrics)
		if got[0] != 1000 {
			t.Errorf("clean site: got %d, expected 1000", got[0])
		}
		if got[1] != 0 {
			t.Errorf("dirty site: got %d, expected 0", got[1])
		}
	})

	t.Run("constant columns scale to zero", func(t *testing.T) {
		t.Parallel()

		// Every count column is constant, so only the ratios contribute:
		// 10 * (0.20 + 0.10 + 0.05 + 0.20*(1-0.5) + 0.15 + 0.15 + 0.15*(1-0)) = 9.0
		metrics := []TrackerMetrics{
			{Name: "a.com", TotalTrackers: 5, Tracked: 0.5},
			{Name: "b.com", TotalTrackers: 5, Tracked: 0.5},
		}
		got := CompositePrivacy(metrics)
		if got[0] != 900 || got[1] != 900 {
			t.Errorf("got %v, expected [900 900]", got)
		}
	})

	t.Run("midpoint site", func(t *testing.T) {
		t.Parallel()

		// The middle site scales to 0.5 on every count column:
		// 10 * (0.5*0.20 + 0.5*0.10 + 0.5*0.05 + 0.20 + 0.5*0.15 + 0.5*0.15 + 0.15) = 6.75,
		// floored to 6 points.
		metrics := []TrackerMetrics{
			{Name: "low.com"},
			{Name: "mid.com", TotalTrackers: 10, AdTrackers: 2, Companies: 4, RequestsTracking: 6, Trackers: 3},
			{Name: "high.com", TotalTrackers: 20, AdTrackers: 4, Companies: 8, RequestsTracking: 12, Trackers: 6},
		}
		got := CompositePrivacy(metrics)
		if got[1] != 600 {
			t.Errorf("got %d, expected 600", got[1])
		}
	})

	t.Run("fraction below the next point is floored", func(t *testing.T) {
		t.Parallel()

		// Only referer leakage varies: 10 * (0.85 + 0.15*(1-0.0067)) = 9.98995.
		metrics := []TrackerMetrics{{Name: "almost.org", RefererLeaked: 0.0067}}
		if got := CompositePrivacy(metrics); got[0] != 900 {
			t.Errorf("got %d, expected 900", got[0])
		}
	})

	t.Run("fractional score of 7.99", func(t *testing.T) {
		t.Parallel()

		// Count columns are constant; ratios give
		// 10 * (0.20 + 0.10 + 0.05 + 0.20*(1-0.255) + 0.15 + 0.15 + 0.15*(1-1)) = 7.99.
		metrics := []TrackerMetrics{{Name: "seven.org", Tracked: 0.255, RefererLeaked: 1}}
		if got := CompositePrivacy(metrics); got[0] != 700 {
			t.Errorf("got %d, expected 700", got[0])
		}
	})

	t.Run("whole point survives float noise", func(t *testing.T) {
		t.Parallel()

		// 10 * (0.65 + 0.20*(1-0.75) + 0.15*(1-1)) is 7 up to float error.
		metrics := []TrackerMetrics{{Name: "seven.net", Tracked: 0.75, RefererLeaked: 1}}
		if got := CompositePrivacy(metrics); got[0] != 700 {
			t.Errorf("got %d, expected 700", got[0])
		}
	})

	t.Run("ratios are clamped", func(t *testing.T) {
		t.Parallel()

		got := CompositePrivacy([]TrackerMetrics{{Name: "x", Tracked: 3, RefererLeaked: -2}})
		// 10 * (0.20 + 0.10 + 0.05 + 0 + 0.15 + 0.15 + 0.15) = 8.0
		if got[0] != 800 {
			t.Errorf("got %d, expected 800", got[0])
		}
	})
}
