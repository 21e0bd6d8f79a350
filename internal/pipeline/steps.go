package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/provider"
	"github.com/nao1215/privacyrank/internal/score"
	"github.com/nao1215/privacyrank/internal/site"
)

// Step names.
const (
	StepNormalize = "normalize"
	StepLookup    = "lookup"
	StepClassify  = "classify"
	StepPersist   = "persist"
)

// NormalizeStep turns the user input into a catalog key.
// Aliases are resolved before normalization and match case-insensitively.
type NormalizeStep struct {
	aliases map[string]string
}

// NewNormalizeStep creates a NormalizeStep with the given aliases
// (short name to site identifier). aliases may be nil.
func NewNormalizeStep(aliases map[string]string) *NormalizeStep {
	folded := make(map[string]string, len(aliases))
	for k, v := range aliases {
		folded[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &NormalizeStep{aliases: folded}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return StepNormalize
}

// Do executes the normalize step.
func (s *NormalizeStep) Do(_ context.Context, analysis *model.Analysis) error {
	input := analysis.Input
	if target, ok := s.aliases[strings.ToLower(strings.TrimSpace(input))]; ok {
		input = target
	}

	name, err := site.Normalize(input)
	if err != nil {
		return err
	}
	analysis.Site = name
	return nil
}

// Analyzer scores a site that is not in the catalog.
// *provider.Remote implements it.
type Analyzer interface {
	Analyze(ctx context.Context, site string) (model.SiteRecord, error)
}

// LookupStep finds the scores of the normalized site.
//
// Catalog hits are used as is. A subdomain that is not in the catalog
// falls back to its registrable domain, so maps.google.ca finds google.ca.
// On a miss the analyzer, when configured, is asked for the site as typed
// and its result is added to the catalog. Without an analyzer a miss fails
// with a *provider.SiteNotFoundError listing the catalog.
type LookupStep struct {
	catalog  *model.Catalog
	analyzer Analyzer
	logger   *slog.Logger
}

// LookupStepOption configures a LookupStep.
type LookupStepOption func(*LookupStep)

// WithAnalyzer sets the analyzer used on catalog misses.
func WithAnalyzer(a Analyzer) LookupStepOption {
	return func(s *LookupStep) {
		s.analyzer = a
	}
}

// WithLookupLogger sets a custom logger for the lookup step.
func WithLookupLogger(logger *slog.Logger) LookupStepOption {
	return func(s *LookupStep) {
		s.logger = logger
	}
}

// NewLookupStep creates a LookupStep over catalog.
func NewLookupStep(catalog *model.Catalog, opts ...LookupStepOption) *LookupStep {
	s := &LookupStep{
		catalog: catalog,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LookupStep) Name() string {
	return StepLookup
}

// Do executes the lookup step.
func (s *LookupStep) Do(ctx context.Context, analysis *model.Analysis) error {
	if r, ok := s.catalog.Get(analysis.Site); ok {
		analysis.Record = r
		analysis.Source = model.SourceCatalog
		return nil
	}
	if parent, err := site.Registrable(analysis.Site); err == nil && parent != analysis.Site {
		if r, ok := s.catalog.Get(parent); ok {
			s.logger.Debug("using registrable domain", "site", analysis.Site, "domain", parent)
			analysis.Site = parent
			analysis.Record = r
			analysis.Source = model.SourceCatalog
			return nil
		}
	}

	if s.analyzer == nil {
		return provider.NewSiteNotFoundError(analysis.Site, s.catalog.Names())
	}

	s.logger.Debug("site not in catalog, asking remote backend", "site", analysis.Site)
	r, err := s.analyzer.Analyze(ctx, analysis.Site)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", analysis.Site, err)
	}
	analysis.Record = r
	analysis.Source = model.SourceRemote
	analysis.Added = s.catalog.Put(r)
	return nil
}

// ClassifyStep classifies the looked up scores.
type ClassifyStep struct{}

// NewClassifyStep creates a ClassifyStep.
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return StepClassify
}

// Do executes the classify step.
func (s *ClassifyStep) Do(_ context.Context, analysis *model.Analysis) error {
	c := score.ClassifyRecord(analysis.Record)
	analysis.Classification = &c
	return nil
}

// Store persists sites and analyses. *database.SiteDB implements it.
type Store interface {
	UpsertSite(ctx context.Context, r model.SiteRecord) error
	RecordAnalysis(ctx context.Context, a *model.Analysis, fingerprint string) (string, error)
}

// PersistStep saves the analyzed site and an analysis history entry.
// The fingerprint of the catalog at persist time is stored with it.
type PersistStep struct {
	store   Store
	catalog *model.Catalog
}

// NewPersistStep creates a PersistStep.
func NewPersistStep(store Store, catalog *model.Catalog) *PersistStep {
	return &PersistStep{store: store, catalog: catalog}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return StepPersist
}

// Do executes the persist step.
func (s *PersistStep) Do(ctx context.Context, analysis *model.Analysis) error {
	if err := s.store.UpsertSite(ctx, analysis.Record); err != nil {
		return err
	}

	var fingerprint string
	if s.catalog != nil {
		fingerprint = provider.Fingerprint(s.catalog)
	}
	if _, err := s.store.RecordAnalysis(ctx, analysis, fingerprint); err != nil {
		return err
	}
	return nil
}

// AnalysisConfig holds the dependencies of the standard analysis pipeline.
type AnalysisConfig struct {
	// Catalog is required. Remote results are added to it.
	Catalog *model.Catalog

	// Aliases maps short names to site identifiers.
	Aliases map[string]string

	// Analyzer scores unknown sites. Optional.
	Analyzer Analyzer

	// Store persists results. Optional; without it nothing is saved.
	Store Store
}

// AnalysisPipeline creates the standard pipeline:
// normalize, lookup, classify and, with a store, persist.
func AnalysisPipeline(cfg AnalysisConfig, opts ...Option) *Pipeline {
	p := New(opts...)

	lookupOpts := []LookupStepOption{WithLookupLogger(p.logger)}
	if cfg.Analyzer != nil {
		lookupOpts = append(lookupOpts, WithAnalyzer(cfg.Analyzer))
	}

	p.AddSteps(
		NewNormalizeStep(cfg.Aliases),
		NewLookupStep(cfg.Catalog, lookupOpts...),
		NewClassifyStep(),
	)
	if cfg.Store != nil {
		p.AddStep(NewPersistStep(cfg.Store, cfg.Catalog))
	}
	return p
}
