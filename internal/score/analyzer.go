package score

import (
	"time"

	"github.com/nao1215/privacyrank/internal/model"
)

// Risk thresholds on the rank scale. They are compared against the
// average of privacy and security with >=.
const (
	// GoodThreshold is the lowest average classified as Good.
	GoodThreshold = 700

	// ModerateThreshold is the lowest average classified as Moderate.
	ModerateThreshold = 500
)

// Average returns (privacy + security) / 2 without integer truncation.
func Average(privacy, security int) float64 {
	return float64(privacy+security) / 2
}

// ClassifyRisk classifies a pair of rank-scale scores.
// The first matching threshold wins, checked from best to worst.
func ClassifyRisk(privacy, security int) model.Classification {
	avg := Average(privacy, security)

	level := model.RiskHigh
	switch {
	case avg >= GoodThreshold:
		level = model.RiskGood
	case avg >= ModerateThreshold:
		level = model.RiskModerate
	}

	return model.Classification{
		Level:      level,
		ColorToken: level.ColorToken(),
		Average:    avg,
		GaugeAngle: level.GaugeAngle(),
	}
}

// ClassifyRecord is ClassifyRisk applied to a record.
func ClassifyRecord(r model.SiteRecord) model.Classification {
	return ClassifyRisk(r.Privacy, r.Security)
}

// Field selects which score FindExtremum compares.
type Field int

const (
	// FieldPrivacy compares privacy scores.
	FieldPrivacy Field = iota
	// FieldSecurity compares security scores.
	FieldSecurity
)

// String returns the field name.
func (f Field) String() string {
	if f == FieldSecurity {
		return "security"
	}
	return "privacy"
}

func (f Field) value(r model.SiteRecord) int {
	if f == FieldSecurity {
		return r.Security
	}
	return r.Privacy
}

// Direction selects whether FindExtremum looks for the lowest or highest score.
type Direction int

const (
	// Min finds the lowest score.
	Min Direction = iota
	// Max finds the highest score.
	Max
)

// FindExtremum returns the record with the lowest or highest value of field.
//
// Records are scanned in slice order with a strict comparison, so on a tie
// the earliest record wins. An empty slice yields model.SentinelRecord().
func FindExtremum(records []model.SiteRecord, field Field, dir Direction) model.SiteRecord {
	if len(records) == 0 {
		return model.SentinelRecord()
	}

	best := records[0]
	for _, r := range records[1:] {
		v, cur := field.value(r), field.value(best)
		if (dir == Max && v > cur) || (dir == Min && v < cur) {
			best = r
		}
	}
	return best
}

// Best returns the record with the highest privacy score.
func Best(records []model.SiteRecord) model.SiteRecord {
	return FindExtremum(records, FieldPrivacy, Max)
}

// Worst returns the record with the lowest privacy score.
func Worst(records []model.SiteRecord) model.SiteRecord {
	return FindExtremum(records, FieldPrivacy, Min)
}

// SummaryOptions carries the report metadata attached to a Dashboard.
type SummaryOptions struct {
	// Selected is the analysis shown as the current site. May be nil.
	Selected *model.Analysis
	// Scale is the display scale. Defaults to model.ScaleRank.
	Scale model.Scale
	// Source names the provider the catalog came from.
	Source string
	// Warning is a fallback notice to show with the dashboard.
	Warning string
}

// Summarize builds a Dashboard for catalog.
// A nil catalog is treated as empty.
func Summarize(catalog *model.Catalog, opts SummaryOptions) *model.Dashboard {
	var records []model.SiteRecord
	if catalog != nil {
		records = catalog.Records()
	}

	scale := opts.Scale
	if scale == "" {
		scale = model.ScaleRank
	}

	d := &model.Dashboard{
		Selected:    opts.Selected,
		Sites:       make([]model.SiteSummary, 0, len(records)),
		Best:        Best(records),
		Worst:       Worst(records),
		Scale:       scale,
		Source:      opts.Source,
		Warning:     opts.Warning,
		GeneratedAt: time.Now(),
	}
	for _, r := range records {
		c := ClassifyRecord(r)
		d.Sites = append(d.Sites, model.SiteSummary{Record: r, Classification: c})
		d.Distribution.Add(c.Level)
	}
	return d
}
