package model

import (
	"encoding/json"
	"testing"
)

// TestRiskLevelString tests the wire names of RiskLevel.
func TestRiskLevelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level    RiskLevel
		expected string
		label    string
		color    string
	}{
		{RiskGood, "Good", "Good", "#4CAF50"},
		{RiskModerate, "Moderate", "Moderate", "#FF9800"},
		{RiskHigh, "HighRisk", "High Risk", "#f44336"},
		{RiskLevel(42), "Unknown", "Unknown", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := tc.level.String(); got != tc.expected {
				t.Errorf("String: got %q, expected %q", got, tc.expected)
			}
			if got := tc.level.Label(); got != tc.label {
				t.Errorf("Label: got %q, expected %q", got, tc.label)
			}
			if got := tc.level.ColorToken(); got != tc.color {
				t.Errorf("ColorToken: got %q, expected %q", got, tc.color)
			}
		})
	}
}

// TestRiskLevelGaugeAngle tests gauge angles per level.
func TestRiskLevelGaugeAngle(t *testing.T) {
	t.Parallel()

	if RiskGood.GaugeAngle() != -45 || RiskModerate.GaugeAngle() != 0 || RiskHigh.GaugeAngle() != 45 {
		t.Error("unexpected gauge angles")
	}
}

// TestRiskLevelJSON tests that levels serialize by name.
func TestRiskLevelJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshal", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Classification{Level: RiskHigh, ColorToken: ColorHighRisk, Average: 365})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"level":"HighRisk","color_token":"#f44336","average":365,"gauge_angle":0}`
		if string(data) != want {
			t.Errorf("got %s, expected %s", data, want)
		}
	})

	t.Run("unmarshal", func(t *testing.T) {
		t.Parallel()
		var c Classification
		if err := json.Unmarshal([]byte(`{"level":"Moderate"}`), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Level != RiskModerate {
			t.Errorf("expected Moderate, got %v", c.Level)
		}
	})

	t.Run("unmarshal unknown level fails", func(t *testing.T) {
		t.Parallel()
		var c Classification
		if err := json.Unmarshal([]byte(`{"level":"Excellent"}`), &c); err == nil {
			t.Error("expected error for unknown level")
		}
	})
}

// TestParseRiskLevel tests parsing wire names.
func TestParseRiskLevel(t *testing.T) {
	t.Parallel()

	for _, l := range AllRiskLevels {
		got, err := ParseRiskLevel(l.String())
		if err != nil || got != l {
			t.Errorf("round trip of %v failed: got %v, err %v", l, got, err)
		}
	}
	if _, err := ParseRiskLevel("High Risk"); err == nil {
		t.Error("expected labels not to parse as wire names")
	}
}
