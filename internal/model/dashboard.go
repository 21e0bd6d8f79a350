package model

import (
	"sort"
	"time"
)

// SiteSummary is one row of the dashboard: a record and its classification.
type SiteSummary struct {
	Record         SiteRecord     `json:"record"`
	Classification Classification `json:"classification"`
}

// LevelCounts counts sites per risk level.
type LevelCounts struct {
	Good     int `json:"good"`
	Moderate int `json:"moderate"`
	HighRisk int `json:"high_risk"`
}

// Add increments the counter for level.
func (c *LevelCounts) Add(level RiskLevel) {
	switch level {
	case RiskGood:
		c.Good++
	case RiskModerate:
		c.Moderate++
	case RiskHigh:
		c.HighRisk++
	}
}

// Get returns the counter for level.
func (c LevelCounts) Get(level RiskLevel) int {
	switch level {
	case RiskGood:
		return c.Good
	case RiskModerate:
		return c.Moderate
	case RiskHigh:
		return c.HighRisk
	default:
		return 0
	}
}

// Total returns the number of counted sites.
func (c LevelCounts) Total() int {
	return c.Good + c.Moderate + c.HighRisk
}

// Dashboard is the complete view rendered for a catalog: the selected site,
// every site with its classification, and the best/worst privacy sites.
//
// It replaces the mutable UI state of a browser dashboard with a value
// built once per command.
type Dashboard struct {
	// Selected is the analysis of the currently selected site. May be nil.
	Selected *Analysis `json:"selected,omitempty"`

	// Sites lists every catalog site in catalog order.
	Sites []SiteSummary `json:"sites"`

	// Best is the site with the highest privacy score.
	Best SiteRecord `json:"best"`

	// Worst is the site with the lowest privacy score.
	Worst SiteRecord `json:"worst"`

	// Distribution counts sites per risk level.
	Distribution LevelCounts `json:"distribution"`

	// Scale is the display scale of rendered scores.
	Scale Scale `json:"scale"`

	// Source names the provider the catalog was loaded from.
	Source string `json:"source,omitempty"`

	// Warning is set when the catalog came from a fallback source.
	Warning string `json:"warning,omitempty"`

	// GeneratedAt is when the dashboard was built.
	GeneratedAt time.Time `json:"generated_at"`
}

// Ranked returns the sites ordered by privacy score, highest first.
// Ties keep catalog order.
func (d *Dashboard) Ranked() []SiteSummary {
	out := make([]SiteSummary, len(d.Sites))
	copy(out, d.Sites)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Record.Privacy > out[j].Record.Privacy
	})
	return out
}

// WorstLevel returns the worst risk level present, and false when there are no sites.
func (d *Dashboard) WorstLevel() (RiskLevel, bool) {
	for i := len(AllRiskLevels) - 1; i >= 0; i-- {
		if d.Distribution.Get(AllRiskLevels[i]) > 0 {
			return AllRiskLevels[i], true
		}
	}
	return RiskGood, false
}

// Comparison puts two analyses side by side.
type Comparison struct {
	Left  *Analysis `json:"left"`
	Right *Analysis `json:"right"`

	// Deltas are Left minus Right on the rank scale.
	PrivacyDelta  int     `json:"privacy_delta"`
	SecurityDelta int     `json:"security_delta"`
	AverageDelta  float64 `json:"average_delta"`

	// Scale is the display scale of rendered scores.
	Scale Scale `json:"scale"`
}

// NewComparison computes the deltas between two classified analyses.
func NewComparison(left, right *Analysis, scale Scale) *Comparison {
	c := &Comparison{Left: left, Right: right, Scale: scale}
	c.PrivacyDelta = left.Record.Privacy - right.Record.Privacy
	c.SecurityDelta = left.Record.Security - right.Record.Security
	if left.Classification != nil && right.Classification != nil {
		c.AverageDelta = left.Classification.Average - right.Classification.Average
	}
	return c
}

// Leader returns the name of the site with the higher average score,
// or the empty string on a tie.
func (c *Comparison) Leader() string {
	switch {
	case c.AverageDelta > 0:
		return c.Left.DisplayName()
	case c.AverageDelta < 0:
		return c.Right.DisplayName()
	default:
		return ""
	}
}
