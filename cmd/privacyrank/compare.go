package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <site> <site>",
		Short: "Compare two websites side by side",
		Long: `Compare analyzes two sites and shows their privacy, security and
average scores next to each other, with the difference between them and
the site that scores better overall.

Examples:
  privacyrank compare google.ca facebook.com
  privacyrank compare --json fb g`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	addSourceFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
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

	// Sequential so both sites see the same catalog and aliases.
	e.cfg.BatchSize = 1
	analyses, err := e.analyze(ctx, args)
	e.saveCatalog(ctx)
	if err != nil {
		return err
	}

	comparison := model.NewComparison(analyses[0], analyses[1], cfg.Scale)
	if werr := writeReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.WriteComparison(comparison)
		return err
	}); werr != nil {
		return werr
	}
	return analysisErrors(analyses)
}
