package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/provider"
	"github.com/nao1215/privacyrank/internal/report"
	"github.com/nao1215/privacyrank/internal/score"
)

// errWatchNeedsCatalog is returned when watch has no catalog file to watch.
var errWatchNeedsCatalog = errors.New("watch needs a catalog file: use --catalog or set 'catalog' in the config file")

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the ranking whenever the catalog file changes",
		Long: `Watch prints the ranking of a YAML catalog and prints it again every
time the file's content changes. Saves that leave the scores unchanged
are ignored. Stop with Ctrl+C.

Examples:
  privacyrank watch --catalog sites.yaml
  privacyrank watch --catalog sites.yaml -s percentage`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	cmd.Flags().String("catalog", "", "YAML catalog file to watch")
	cmd.Flags().StringP("scale", "s", string(model.ScaleRank), "Display scale: rank (0-1000) or percentage (0-100)")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .privacyrank in current or home directory)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")

	return cmd
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfg.CatalogFile == "" {
		return errWatchNeedsCatalog
	}
	logger := setupLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := newWriter(cfg, cmd.OutOrStdout())
	file := provider.NewFile(cfg.CatalogFile)
	return watchCatalog(ctx, file, logger, func(catalog *model.Catalog) error {
		dashboard := score.Summarize(catalog, score.SummaryOptions{
			Scale:  cfg.Scale,
			Source: file.Name(),
		})
		_, err := w.WriteDashboard(dashboard)
		return err
	})
}

// watchCatalog calls render with the catalog in file, then again after
// every change of the catalog's fingerprint, until ctx is done.
// Unparsable intermediate saves are logged and skipped.
func watchCatalog(ctx context.Context, file *provider.File, logger *slog.Logger, render func(*model.Catalog) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it, so watch the directory.
	path, err := filepath.Abs(file.Path())
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	var last string
	reload := func() error {
		catalog, err := file.Load(ctx)
		if err != nil {
			logger.Warn("failed to reload catalog", "path", path, "error", err)
			return nil
		}
		fp := provider.Fingerprint(catalog)
		if fp == last {
			logger.Debug("catalog unchanged", "path", path)
			return nil
		}
		last = fp
		return render(catalog)
	}

	catalog, err := file.Load(ctx)
	if err != nil {
		return err
	}
	last = provider.Fingerprint(catalog)
	if err := render(catalog); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("catalog changed", "path", path, "op", ev.Op.String())
			if err := reload(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}
