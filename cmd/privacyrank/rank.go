package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/provider"
	"github.com/nao1215/privacyrank/internal/report"
	"github.com/nao1215/privacyrank/internal/score"
)

// NewRankCmd creates the rank command.
func NewRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank every site in the catalog",
		Long: `Rank prints every catalog site ordered by privacy score, with its risk
level, the best and worst privacy sites and the risk distribution.

Examples:
  # Rank the sample data
  privacyrank rank

  # Rank a YAML catalog on the percentage scale
  privacyrank rank --catalog sites.yaml -s percentage

  # Markdown with a mermaid pie chart of the risk distribution
  privacyrank rank -m -o ranking.md

  # Save the backend's catalog for offline use or for watch
  privacyrank rank --remote https://scores.example.com --export sites.yaml`,
		Args: cobra.NoArgs,
		RunE: runRankCmd,
	}

	addSourceFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().String("export", "", "Also write the catalog as YAML to this file (readable by --catalog)")

	return cmd
}

func runRankCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cmd, cfg)

	e, err := newEnv(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()
	e.saveCatalog(cmd.Context())

	exportPath, err := cmd.Flags().GetString("export")
	if err != nil {
		return err
	}
	if exportPath != "" {
		if err := exportCatalog(exportPath, e.result.Catalog, cfg.Scale); err != nil {
			return err
		}
		logger.Debug("catalog exported", "path", exportPath, "sites", e.result.Catalog.Len())
	}

	dashboard := score.Summarize(e.result.Catalog, score.SummaryOptions{
		Scale:   cfg.Scale,
		Source:  e.result.Source,
		Warning: e.result.Warning,
	})
	return writeReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.WriteDashboard(dashboard)
		return err
	})
}

// exportCatalog writes catalog as a YAML catalog file on scale.
func exportCatalog(path string, catalog *model.Catalog, scale model.Scale) error {
	data, err := provider.EncodeCatalog(catalog, scale)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to export catalog: %w", err)
	}
	return nil
}
