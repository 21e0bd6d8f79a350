package provider

import (
	"context"

	"github.com/nao1215/privacyrank/internal/model"
)

// sampleSites is the built-in catalog on the rank scale.
var sampleSites = []model.SiteRecord{
	{Name: "google.ca", Privacy: 606, Security: 714, LastScan: "Oct 18, 2025"},
	{Name: "facebook.com", Privacy: 450, Security: 680, LastScan: "Oct 15, 2025"},
	{Name: "china-scooter.ru", Privacy: 920, Security: 880, LastScan: "Oct 20, 2025"},
	{Name: "netbk.co.jp", Privacy: 270, Security: 460, LastScan: "Oct 19, 2025"},
}

// Static serves a fixed catalog. The zero value serves the sample data.
type Static struct {
	name    string
	records []model.SiteRecord
}

// NewStatic creates a provider serving the given records.
func NewStatic(name string, records ...model.SiteRecord) *Static {
	return &Static{name: name, records: records}
}

// Sample returns the provider of the built-in sample data.
func Sample() *Static {
	return &Static{}
}

// SampleRecords returns a copy of the built-in sample data.
func SampleRecords() []model.SiteRecord {
	out := make([]model.SiteRecord, len(sampleSites))
	copy(out, sampleSites)
	return out
}

// Name implements Provider.
func (s *Static) Name() string {
	if s.name == "" {
		return "sample"
	}
	return s.name
}

// Load implements Provider. Each call returns a fresh catalog.
func (s *Static) Load(_ context.Context) (*model.Catalog, error) {
	if s.records == nil {
		return model.NewCatalog(sampleSites...), nil
	}
	return model.NewCatalog(s.records...), nil
}
