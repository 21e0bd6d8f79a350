package model

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RiskLevel is the outcome tier of classifying a site's average score.
// Levels are ordered from best to worst.
type RiskLevel int

const (
	// RiskGood means the average score is at or above the good threshold.
	RiskGood RiskLevel = iota

	// RiskModerate means the average score is between the moderate and
	// good thresholds.
	RiskModerate

	// RiskHigh means the average score is below the moderate threshold.
	RiskHigh
)

// Color tokens handed to renderers. They match the dashboard palette.
const (
	ColorGood     = "#4CAF50"
	ColorModerate = "#FF9800"
	ColorHighRisk = "#f44336"
)

// AllRiskLevels lists every level from best to worst.
var AllRiskLevels = []RiskLevel{RiskGood, RiskModerate, RiskHigh}

// String returns the wire name of the level: "Good", "Moderate" or "HighRisk".
func (l RiskLevel) String() string {
	switch l {
	case RiskGood:
		return "Good"
	case RiskModerate:
		return "Moderate"
	case RiskHigh:
		return "HighRisk"
	default:
		return "Unknown"
	}
}

// Label returns the human readable, title-cased label ("High Risk").
func (l RiskLevel) Label() string {
	words := map[RiskLevel]string{
		RiskGood:     "good",
		RiskModerate: "moderate",
		RiskHigh:     "high risk",
	}
	w, ok := words[l]
	if !ok {
		w = "unknown"
	}
	return cases.Title(language.English).String(w)
}

// ColorToken returns the renderer color for the level.
func (l RiskLevel) ColorToken() string {
	switch l {
	case RiskGood:
		return ColorGood
	case RiskModerate:
		return ColorModerate
	case RiskHigh:
		return ColorHighRisk
	default:
		return ""
	}
}

// GaugeAngle returns the needle angle, in degrees, used by gauge renderers.
func (l RiskLevel) GaugeAngle() int {
	switch l {
	case RiskGood:
		return -45
	case RiskModerate:
		return 0
	default:
		return 45
	}
}

// ParseRiskLevel parses a wire name produced by String.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, l := range AllRiskLevels {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown risk level %q", s)
}

// MarshalJSON encodes the level by its wire name.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a wire name.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Classification is the result of classifying a pair of scores.
type Classification struct {
	// Level is the risk tier.
	Level RiskLevel `json:"level"`

	// ColorToken is the renderer color for Level.
	ColorToken string `json:"color_token"`

	// Average is (privacy + security) / 2 on the rank scale.
	Average float64 `json:"average"`

	// GaugeAngle is the gauge needle angle for Level.
	GaugeAngle int `json:"gauge_angle"`
}
