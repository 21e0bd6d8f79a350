package model

import "time"

// Analysis sources record where an analyzed SiteRecord came from.
const (
	// SourceCatalog means the site was already in the catalog.
	SourceCatalog = "catalog"

	// SourceRemote means the site was analyzed by the remote backend.
	SourceRemote = "remote"
)

// Analysis is the result of running the analysis pipeline for one site.
// Pipeline steps fill it in incrementally.
type Analysis struct {
	// Input is the site exactly as the user typed it.
	Input string `json:"input"`

	// Site is the normalized site identifier. Empty until normalization ran.
	Site string `json:"site"`

	// Record holds the scores used for classification.
	Record SiteRecord `json:"record"`

	// Classification is nil until the classify step ran.
	Classification *Classification `json:"classification,omitempty"`

	// Source is SourceCatalog or SourceRemote.
	Source string `json:"source,omitempty"`

	// Added is true when the analysis inserted a new site into the catalog.
	Added bool `json:"added"`

	// AnalyzedAt is when the analysis started.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut is set when the pipeline was cancelled mid-way.
	TimedOut bool `json:"timed_out"`

	// Error is the last step error. It is not serialized; see ErrorMessage.
	Error error `json:"-"`

	// ErrorMessage is Error as text for reports and storage.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAnalysis creates an empty analysis for the given user input.
func NewAnalysis(input string) *Analysis {
	return &Analysis{
		Input:      input,
		AnalyzedAt: time.Now(),
	}
}

// Failed reports whether any step recorded an error.
func (a *Analysis) Failed() bool {
	return a.Error != nil || a.ErrorMessage != ""
}

// Complete reports whether the analysis produced a classification without error.
func (a *Analysis) Complete() bool {
	return !a.Failed() && a.Classification != nil
}

// DisplayName returns the normalized site, falling back to the raw input.
func (a *Analysis) DisplayName() string {
	if a.Site != "" {
		return a.Site
	}
	return a.Input
}
