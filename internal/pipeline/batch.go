package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/privacyrank/internal/model"
)

// DefaultConcurrency is the number of analyses a BatchProcessor runs at once
// unless configured otherwise.
const DefaultConcurrency = 4

// BatchProcessor analyzes many sites concurrently.
// Each site gets a fresh pipeline from the factory.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyzes inputs concurrently.
//
// The result slice is aligned with inputs. A failed analysis does not stop
// the others; its error is recorded in the analysis. The returned error is
// non-nil only when ctx was cancelled, in which case inputs that never
// started have an analysis marked TimedOut.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]*model.Analysis, error) {
	return bp.process(ctx, inputs, nil)
}

// ProcessBatchWithCallback is ProcessBatch with a callback invoked as each
// analysis finishes. The callback runs on the worker goroutine.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []string,
	callback func(analysis *model.Analysis, index int),
) ([]*model.Analysis, error) {
	return bp.process(ctx, inputs, callback)
}

func (bp *BatchProcessor) process(
	ctx context.Context,
	inputs []string,
	callback func(analysis *model.Analysis, index int),
) ([]*model.Analysis, error) {
	bp.logger.Info("starting batch analysis",
		"total_sites", len(inputs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.Analysis, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			analysis := model.NewAnalysis(input)
			results[i] = analysis

			if err := gctx.Err(); err != nil {
				analysis.TimedOut = true
				analysis.Error = err
				analysis.ErrorMessage = err.Error()
				return err
			}

			if err := bp.pipelineFactory().Execute(gctx, analysis); err != nil {
				bp.logger.Warn("analysis failed", "site", analysis.DisplayName(), "error", err)
			}
			if callback != nil {
				callback(analysis, i)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch analysis complete",
		"total_sites", len(inputs),
		"elapsed", time.Since(startTime),
	)
	return results, err
}
