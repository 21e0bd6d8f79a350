package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyrank/internal/config"
	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/pipeline"
	"github.com/nao1215/privacyrank/internal/report"
	"github.com/nao1215/privacyrank/internal/score"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [site...]",
		Short: "Analyze the privacy risk of one or more websites",
		Long: `Analyze looks up the privacy and security scores of each site and
classifies its risk from the average of both:

  Good       average >= 700
  Moderate   average >= 500
  High Risk  below 500

Sites are looked up in the catalog first. With --remote, unknown sites
are scored by the backend and added to the catalog. Without arguments
the 'selected' site from the configuration file is analyzed.

The dashboard of the last site is printed, followed by the full ranking.

Examples:
  # Analyze a site from the sample data
  privacyrank analyze google.ca

  # URLs and www. prefixes are accepted
  privacyrank analyze https://www.facebook.com/login

  # Analyze several sites concurrently against a backend
  privacyrank analyze --remote https://scores.example.com/api --batch 4 a.com b.org

  # Show scores as percentages and write Markdown to a file
  privacyrank analyze -s percentage -m -o report.md google.ca`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	addSourceFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of concurrent analyses")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTargets(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()

	analyses, err := e.analyze(ctx, cfg.Targets())
	e.saveCatalog(ctx)
	if len(analyses) == 0 {
		return err
	}

	dashboard := score.Summarize(e.result.Catalog, score.SummaryOptions{
		Selected: analyses[len(analyses)-1],
		Scale:    cfg.Scale,
		Source:   e.result.Source,
		Warning:  e.result.Warning,
	})
	if werr := writeReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.WriteDashboard(dashboard)
		return err
	}); werr != nil {
		return werr
	}

	return errors.Join(err, analysisErrors(analyses))
}

// analyze runs the pipeline for every target, concurrently when the
// batch size allows it. Results keep the target order.
func (e *env) analyze(ctx context.Context, targets []string) ([]*model.Analysis, error) {
	if len(targets) > 1 && e.cfg.BatchSize > 1 {
		bp := pipeline.NewBatchProcessor(e.pipeline,
			pipeline.WithConcurrency(e.cfg.BatchSize),
			pipeline.WithBatchLogger(e.logger),
		)
		return bp.ProcessBatchWithCallback(ctx, targets, func(a *model.Analysis, i int) {
			e.logger.Debug("analysis finished",
				"index", i+1,
				"total", len(targets),
				"site", a.DisplayName(),
				"complete", a.Complete(),
			)
		})
	}

	analyses := make([]*model.Analysis, 0, len(targets))
	p := e.pipeline()
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return analyses, err
		}
		a, err := p.Run(ctx, target)
		if err != nil {
			e.logger.Debug("analysis failed", "input", target, "error", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

// analysisErrors joins the errors of failed analyses, prefixed with the input.
func analysisErrors(analyses []*model.Analysis) error {
	var errs []error
	for _, a := range analyses {
		if a == nil || a.Error == nil {
			continue
		}
		if len(analyses) == 1 {
			errs = append(errs, a.Error)
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", a.DisplayName(), a.Error))
	}
	return errors.Join(errs...)
}
