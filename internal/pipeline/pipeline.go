package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/privacyrank/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the analysis filled in by
// the steps before it.
type Step interface {
	// Do executes the step. It returns an error when the analysis cannot
	// continue (for example an unknown site).
	Do(ctx context.Context, analysis *model.Analysis) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps executing steps after one fails.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The last error stays recorded in the analysis.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
//
// Cancellation is checked before each step; a cancelled analysis is marked
// TimedOut. Step errors are recorded in the analysis. Unless the pipeline
// continues on error, the first error stops execution and is returned.
func (p *Pipeline) Execute(ctx context.Context, analysis *model.Analysis) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			analysis.TimedOut = true
			analysis.Error = ctx.Err()
			analysis.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"site", analysis.DisplayName(),
		)

		if err := step.Do(ctx, analysis); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"site", analysis.DisplayName(),
				"error", err,
			)
			analysis.Error = err
			analysis.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		}

		analysis.PerformedSteps = append(analysis.PerformedSteps, step.Name())
	}
	return nil
}

// Run creates an analysis for input and executes the pipeline on it.
// The analysis is returned even when execution fails.
func (p *Pipeline) Run(ctx context.Context, input string) (*model.Analysis, error) {
	analysis := model.NewAnalysis(input)
	err := p.Execute(ctx, analysis)
	return analysis, err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
