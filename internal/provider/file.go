package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/score"
	"github.com/nao1215/privacyrank/internal/site"
)

// CatalogDocument is the on-disk YAML form of a catalog.
//
//	scale: percentage
//	sites:
//	  - name: google.ca
//	    privacy: 60
//	    security: 71
//	    lastScan: Oct 18, 2025
type CatalogDocument struct {
	// Scale of the privacy and security values. Empty means rank.
	Scale string `yaml:"scale,omitempty"`

	// Sites in catalog order.
	Sites []SiteEntry `yaml:"sites"`
}

// SiteEntry is one site of a CatalogDocument. Absent scores fall back to
// model.DefaultPrivacy and model.DefaultSecurity.
type SiteEntry struct {
	Name     string  `yaml:"name"`
	Privacy  *int    `yaml:"privacy,omitempty"`
	Security *int    `yaml:"security,omitempty"`
	LastScan string  `yaml:"lastScan,omitempty"`
	Trackers int     `yaml:"trackers,omitempty"`
	Metrics  *Metric `yaml:"metrics,omitempty"`
}

// Metric holds tracker observations used to derive a privacy score when
// the entry has none.
type Metric = score.TrackerMetrics

// File loads a YAML catalog from disk.
type File struct {
	path string
}

// NewFile creates a provider reading path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Name implements Provider.
func (f *File) Name() string {
	return "file:" + filepath.Base(f.path)
}

// Path returns the catalog file path.
func (f *File) Path() string {
	return f.path
}

// Load implements Provider.
func (f *File) Load(ctx context.Context) (*model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
//
// Site names are normalized. Scores declared on the percentage scale are
// converted to rank. Entries without a privacy score but with metrics get
// a composite privacy score computed across all such entries.
func ParseCatalog(data []byte) (*model.Catalog, error) {
	var doc CatalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFormat, err)
	}
	return doc.Catalog()
}

// Catalog converts the document into a catalog.
func (d *CatalogDocument) Catalog() (*model.Catalog, error) {
	scale, err := model.ParseScale(d.Scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFormat, err)
	}

	records := make([]model.SiteRecord, 0, len(d.Sites))
	var (
		metrics    []score.TrackerMetrics
		metricsIdx []int
		errs       []error
	)
	for i, e := range d.Sites {
		name, err := site.Normalize(e.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("site %d: %w", i+1, err))
			continue
		}

		r := model.SiteRecord{
			Name:     name,
			Privacy:  model.DefaultPrivacy,
			Security: model.DefaultSecurity,
			LastScan: e.LastScan,
			Trackers: e.Trackers,
		}
		if e.Privacy != nil {
			r.Privacy = scale.ToRank(*e.Privacy)
		}
		if e.Security != nil {
			r.Security = scale.ToRank(*e.Security)
		}
		if r.Privacy < 0 || r.Security < 0 {
			errs = append(errs, fmt.Errorf("site %s: scores must not be negative", name))
			continue
		}

		if e.Privacy == nil && e.Metrics != nil {
			m := *e.Metrics
			m.Name = name
			metrics = append(metrics, m)
			metricsIdx = append(metricsIdx, len(records))
			if r.Trackers == 0 {
				r.Trackers = int(m.TotalTrackers)
			}
		}
		records = append(records, r)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrCatalogFormat, errors.Join(errs...))
	}

	for i, p := range score.CompositePrivacy(metrics) {
		records[metricsIdx[i]].Privacy = p
	}
	return model.NewCatalog(records...), nil
}

// EncodeCatalog renders catalog as a YAML document on the given scale.
func EncodeCatalog(catalog *model.Catalog, scale model.Scale) ([]byte, error) {
	doc := CatalogDocument{Scale: string(scale)}
	for _, r := range catalog.Records() {
		privacy, security := scale.FromRank(r.Privacy), scale.FromRank(r.Security)
		doc.Sites = append(doc.Sites, SiteEntry{
			Name:     r.Name,
			Privacy:  &privacy,
			Security: &security,
			LastScan: r.LastScan,
			Trackers: r.Trackers,
		})
	}
	return yaml.Marshal(&doc)
}
