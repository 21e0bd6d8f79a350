package score

import "math"

// TrackerMetrics are the raw tracker observations of one site.
//
// Count fields are min-max scaled across all sites passed to
// CompositePrivacy. Tracked and RefererLeaked are already ratios in [0, 1].
type TrackerMetrics struct {
	// Name is the site identifier.
	Name string `json:"name" yaml:"name"`
	// TotalTrackers is the number of distinct trackers seen on the site.
	TotalTrackers float64 `json:"total_trackers" yaml:"totalTrackers"`
	// AdTrackers is the number of distinct advertising trackers.
	AdTrackers float64 `json:"ad_trackers" yaml:"adTrackers"`
	// Companies is the average number of companies present per page load.
	Companies float64 `json:"companies" yaml:"companies"`
	// Tracked is the ratio of page loads with tracking.
	Tracked float64 `json:"tracked" yaml:"tracked"`
	// RequestsTracking is the average number of tracking requests per page load.
	RequestsTracking float64 `json:"requests_tracking" yaml:"requestsTracking"`
	// Trackers is the average number of trackers per page load.
	Trackers float64 `json:"trackers" yaml:"trackers"`
	// RefererLeaked is the ratio of page loads leaking the referer.
	RefererLeaked float64 `json:"referer_leaked" yaml:"refererLeaked"`
}

// Composite weights. They sum to 1.
const (
	weightTotal            = 0.20
	weightAd               = 0.10
	weightCompanies        = 0.05
	weightTracked          = 0.20
	weightRequestsTracking = 0.15
	weightTrackers         = 0.15
	weightRefererLeaked    = 0.15
)

// compositeMax is the top of the raw composite score. rankPerPoint maps it
// onto the rank scale.
const (
	compositeMax     = 10
	rankPerPoint     = 100
	compositeEpsilon = 1e-9
)

// CompositePrivacy derives rank-scale privacy scores from tracker metrics.
// The raw 0-10 score is floored to a whole point before it is multiplied
// onto the rank scale, so every result is a multiple of 100.
//
// Each count column is min-max scaled over metrics, so the result for one
// site depends on every other site in the set. A column where every site
// has the same value scales to 0. The result slice is aligned with metrics.
func CompositePrivacy(metrics []TrackerMetrics) []int {
	if len(metrics) == 0 {
		return nil
	}

	total := minMax(metrics, func(m TrackerMetrics) float64 { return m.TotalTrackers })
	ad := minMax(metrics, func(m TrackerMetrics) float64 { return m.AdTrackers })
	companies := minMax(metrics, func(m TrackerMetrics) float64 { return m.Companies })
	requests := minMax(metrics, func(m TrackerMetrics) float64 { return m.RequestsTracking })
	trackers := minMax(metrics, func(m TrackerMetrics) float64 { return m.Trackers })

	out := make([]int, len(metrics))
	for i, m := range metrics {
		raw := compositeMax * ((1-total[i])*weightTotal +
			(1-ad[i])*weightAd +
			(1-companies[i])*weightCompanies +
			(1-clampRatio(m.Tracked))*weightTracked +
			(1-requests[i])*weightRequestsTracking +
			(1-trackers[i])*weightTrackers +
			(1-clampRatio(m.RefererLeaked))*weightRefererLeaked)
		// The score is floored on the 0-10 scale; eps keeps float noise
		// such as 6.9999999 from dropping a whole point.
		out[i] = int(math.Floor(raw+compositeEpsilon)) * rankPerPoint
	}
	return out
}

func minMax(metrics []TrackerMetrics, col func(TrackerMetrics) float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, m := range metrics {
		v := col(m)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]float64, len(metrics))
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, m := range metrics {
		out[i] = (col(m) - lo) / span
	}
	return out
}

func clampRatio(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
