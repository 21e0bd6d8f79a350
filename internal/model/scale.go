package model

import "fmt"

// Scale identifies the unit a score is expressed in.
//
// Rank (0-1000) is the canonical scale: every SiteRecord stores rank
// values and the risk thresholds are defined on it. Percentage (0-100)
// is only a display and input transform.
type Scale string

const (
	// ScaleRank is the canonical 0-1000 scale.
	ScaleRank Scale = "rank"

	// ScalePercentage is the 0-100 display scale.
	ScalePercentage Scale = "percentage"
)

// rankPerPercent is the factor between the two scales.
const rankPerPercent = 10

// ParseScale parses a scale name. The empty string means ScaleRank.
func ParseScale(s string) (Scale, error) {
	switch Scale(s) {
	case "", ScaleRank:
		return ScaleRank, nil
	case ScalePercentage:
		return ScalePercentage, nil
	default:
		return "", fmt.Errorf("unknown scale %q (expected %q or %q)", s, ScaleRank, ScalePercentage)
	}
}

// Max returns the upper bound of the scale.
func (s Scale) Max() int {
	if s == ScalePercentage {
		return 100
	}
	return 1000
}

// ToRank converts a value expressed on s to the rank scale.
func (s Scale) ToRank(v int) int {
	if s == ScalePercentage {
		return v * rankPerPercent
	}
	return v
}

// FromRank converts a rank value to s for display.
func (s Scale) FromRank(v int) int {
	if s == ScalePercentage {
		return v / rankPerPercent
	}
	return v
}

// FromRankFloat converts a rank average to s for display.
func (s Scale) FromRankFloat(v float64) float64 {
	if s == ScalePercentage {
		return v / rankPerPercent
	}
	return v
}

// RecordToRank converts both scores of r from s to the rank scale.
func (s Scale) RecordToRank(r SiteRecord) SiteRecord {
	r.Privacy = s.ToRank(r.Privacy)
	r.Security = s.ToRank(r.Security)
	return r
}
