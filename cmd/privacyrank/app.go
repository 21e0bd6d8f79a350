package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nao1215/privacyrank/internal/config"
	"github.com/nao1215/privacyrank/internal/database"
	"github.com/nao1215/privacyrank/internal/log"
	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/pipeline"
	"github.com/nao1215/privacyrank/internal/provider"
	"github.com/nao1215/privacyrank/internal/report"
)

// tokenEnv supplies the backend token without putting it on the command line.
const tokenEnv = "PRIVACYRANK_TOKEN"

// addSourceFlags registers the flags that choose where scores come from.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("remote", "r", "", "Scoring backend URL (falls back to sample data when unreachable)")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy for backend requests (host:port)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each backend request")
	cmd.Flags().String("catalog", "", "YAML catalog file used instead of the sample data")
	cmd.Flags().StringP("scale", "s", string(model.ScaleRank), "Display scale: rank (0-1000) or percentage (0-100)")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .privacyrank in current or home directory)")
	cmd.Flags().String("data-dir", "", "Database directory (default: XDG data directory)")
	cmd.Flags().Bool("no-save", false, "Do not read or write the local database")
}

// addReportFlags registers the output format flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file (creates directories if needed)")
}

// getVerboseFlag retrieves the verbose flag from the command or the root.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from flags and the config file. Flags a
// command did not register keep their defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Sites = args
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.RemoteToken = os.Getenv(tokenEnv)

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Lookup(name) != nil {
			*dst, _ = flags.GetString(name) //nolint:errcheck // flag type is fixed above
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Lookup(name) != nil {
			*dst, _ = flags.GetBool(name) //nolint:errcheck // flag type is fixed above
		}
	}

	var scale, dataDir string
	str("remote", &cfg.RemoteURL)
	str("proxy", &cfg.ProxyAddress)
	str("catalog", &cfg.CatalogFile)
	str("scale", &scale)
	str("config", &cfg.ConfigFilePath)
	str("data-dir", &dataDir)
	str("output", &cfg.ReportFile)
	boolean("no-save", &cfg.NoSave)
	boolean("json", &cfg.JSONReport)
	boolean("markdown", &cfg.MarkdownReport)
	if scale != "" {
		cfg.Scale = model.Scale(scale)
	}
	if dataDir != "" {
		cfg.DBDir = dataDir
	}
	if flags.Lookup("timeout") != nil {
		timeout, err := flags.GetDuration("timeout")
		if err != nil {
			return nil, err
		}
		cfg.Timeout = timeout
	}
	if flags.Lookup("batch") != nil {
		batch, err := flags.GetInt("batch")
		if err != nil {
			return nil, err
		}
		cfg.BatchSize = batch
	}

	// An explicit config path must exist; the default search may find nothing.
	path := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case path != "":
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg, func(name string) bool {
			f := flags.Lookup(name)
			return f != nil && f.Changed
		})
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// setupLogger creates the redacting logger for a command and makes it the default.
// With --json the log lines are JSON as well.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if cfg.JSONReport {
		logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// env bundles what every catalog-backed command needs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.SiteDB
	remote *provider.Remote
	result provider.Result
}

// newEnv opens the store, creates the backend client and loads the catalog.
// Callers must call close.
func newEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*env, error) {
	e := &env{cfg: cfg, logger: logger}

	if cfg.SaveEnabled() {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		e.db = db
		logger.Debug("database opened", "path", db.Path())
	}

	if cfg.RemoteURL != "" {
		remote, err := provider.NewRemote(cfg.RemoteURL, provider.RemoteOptions{
			Token:        cfg.RemoteToken,
			ProxyAddress: cfg.ProxyAddress,
			Timeout:      cfg.Timeout,
			Logger:       logger,
		})
		if err != nil {
			e.close()
			return nil, err
		}
		e.remote = remote
		logger.Debug("using scoring backend", "url", cfg.RemoteURL, "proxy", cfg.ProxyAddress)
		if cfg.CatalogFile != "" {
			logger.Warn("catalog file ignored: the remote backend takes precedence", "catalog", cfg.CatalogFile)
		}
	}

	result, err := loadCatalog(ctx, e.primary(), e.db, logger)
	if err != nil {
		e.close()
		return nil, err
	}
	e.result = result
	return e, nil
}

// primary returns the preferred catalog source: the backend, then a
// catalog file. It is nil when only the sample data is configured.
// newEnv warns when a catalog file loses to the backend.
func (e *env) primary() provider.Provider {
	switch {
	case e.remote != nil:
		return e.remote
	case e.cfg.CatalogFile != "":
		return provider.NewFile(e.cfg.CatalogFile)
	default:
		return nil
	}
}

// loadCatalog loads primary with the sample data as fallback, then adds
// stored sites the catalog does not know yet.
func loadCatalog(ctx context.Context, primary provider.Provider, db *database.SiteDB, logger *slog.Logger) (provider.Result, error) {
	result, err := provider.LoadWithFallback(ctx, primary, provider.Sample(), logger)
	if err != nil {
		return provider.Result{}, err
	}
	if db == nil {
		return result, nil
	}

	stored, err := provider.NewStore(db).Load(ctx)
	if err != nil {
		if !errors.Is(err, provider.ErrCatalogFormat) {
			logger.Warn("failed to read stored sites", "error", err)
		}
		return result, nil
	}
	added := 0
	for _, r := range stored.Records() {
		if !result.Catalog.Has(r.Name) {
			result.Catalog.Put(r)
			added++
		}
	}
	if added > 0 {
		logger.Debug("merged stored sites", "count", added)
	}
	return result, nil
}

// analyzer returns the backend as a pipeline.Analyzer, or nil.
func (e *env) analyzer() pipeline.Analyzer {
	if e.remote == nil {
		return nil
	}
	return e.remote
}

// store returns the database as a pipeline.Store, or nil.
func (e *env) store() pipeline.Store {
	if e.db == nil {
		return nil
	}
	return e.db
}

// pipeline creates the analysis pipeline over the loaded catalog.
func (e *env) pipeline() *pipeline.Pipeline {
	return pipeline.AnalysisPipeline(pipeline.AnalysisConfig{
		Catalog:  e.result.Catalog,
		Aliases:  e.cfg.Aliases,
		Analyzer: e.analyzer(),
		Store:    e.store(),
	}, pipeline.WithLogger(e.logger))
}

// saveCatalog persists the catalog, including sites added during this run.
func (e *env) saveCatalog(ctx context.Context) {
	if e.db == nil {
		return
	}
	if err := e.db.SaveCatalog(ctx, e.result.Catalog); err != nil {
		e.logger.Error("failed to save catalog", "error", err)
	}
}

func (e *env) close() {
	if e.db == nil {
		return
	}
	if err := e.db.Close(); err != nil {
		e.logger.Error("failed to close database", "error", err)
	}
}

// openOutput returns the report destination: the --output file or w.
func openOutput(cfg *config.Config, w io.Writer) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return w, func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// useColor reports whether w is a terminal that should get ANSI colors.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// newWriter creates the report writer for the configured format.
func newWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w,
			report.WithColor(useColor(w)),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// writeReport opens the destination, renders with write and closes it.
func writeReport(cmd *cobra.Command, cfg *config.Config, write func(report.Writer) error) error {
	out, closeOut, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := write(newWriter(cfg, out)); err != nil {
		_ = closeOut() //nolint:errcheck // the write error takes precedence
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeOut()
}
