package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyrank/internal/config"
	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/pipeline"
	"github.com/nao1215/privacyrank/internal/report"
	"github.com/nao1215/privacyrank/internal/score"
	"github.com/nao1215/privacyrank/internal/site"
)

var (
	// errHistoryNeedsStore is returned when history is requested with --no-save.
	errHistoryNeedsStore = errors.New("history needs the local database: remove --no-save")

	// errAnalysisNotFound is returned when --id matches no stored analysis.
	errAnalysisNotFound = errors.New("no stored analysis with this id")
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "Show stored analyses",
		Long: `History lists analyses stored in the local database, newest first.
With a site argument only that site's analyses are shown. With --sites
only the names of analyzed sites are printed. With --id one stored
analysis is shown in full, as analyze printed it.

Examples:
  privacyrank history
  privacyrank history google.ca
  privacyrank history --sites
  privacyrank history --json google.ca   # IDs are in the JSON output
  privacyrank history --id 6f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .privacyrank in current or home directory)")
	cmd.Flags().String("data-dir", "", "Database directory (default: XDG data directory)")
	cmd.Flags().Bool("no-save", false, "Do not read or write the local database")
	cmd.Flags().Bool("sites", false, "List analyzed sites only")
	cmd.Flags().String("id", "", "Show one stored analysis by ID")
	addReportFlags(cmd)

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if !cfg.SaveEnabled() {
		return errHistoryNeedsStore
	}
	logger := setupLogger(cmd, cfg)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	ctx := cmd.Context()
	sitesOnly, err := cmd.Flags().GetBool("sites")
	if err != nil {
		return err
	}
	if sitesOnly {
		names, err := db.ListAnalyzedSites(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, n := range names {
			fmt.Fprintln(out, site.Display(n))
		}
		return nil
	}

	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	if id != "" {
		return showAnalysis(cmd, cfg, db, id)
	}

	var name string
	if len(args) == 1 {
		name, err = resolveSite(ctx, args[0], cfg.Aliases)
		if err != nil {
			return err
		}
	}

	records, err := db.AnalysisHistory(ctx, name)
	if err != nil {
		return err
	}
	return writeReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.WriteHistory(name, records)
		return err
	})
}

// showAnalysis prints the stored analysis id as a dashboard of that one site.
func showAnalysis(cmd *cobra.Command, cfg *config.Config, db *database.SiteDB, id string) error {
	a, err := db.GetAnalysis(cmd.Context(), id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: %s", errAnalysisNotFound, id)
	}

	dashboard := score.Summarize(model.NewCatalog(a.Record), score.SummaryOptions{
		Selected: a,
		Scale:    cfg.Scale,
		Source:   "history:" + id,
	})
	return writeReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.WriteDashboard(dashboard)
		return err
	})
}

// resolveSite applies aliases and normalizes a site argument the same
// way the analysis pipeline does.
func resolveSite(ctx context.Context, input string, aliases map[string]string) (string, error) {
	a := model.NewAnalysis(input)
	if err := pipeline.NewNormalizeStep(aliases).Do(ctx, a); err != nil {
		return "", err
	}
	return a.Site, nil
}
