package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/privacyrank/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "privacyrank"

	// DefaultTimeout bounds a single request to the remote backend.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of sites analyzed concurrently.
	DefaultBatchSize = 4
)

// Config holds all options for a privacyrank command. It is populated
// from flags and the config file, then passed down explicitly.
type Config struct {
	// Sites are the websites given on the command line.
	Sites []string

	// Selected is the site analyzed when Sites is empty.
	Selected string

	// RemoteURL is the scoring backend. Empty means no backend.
	RemoteURL string

	// RemoteToken is sent as a bearer token to the backend.
	RemoteToken string

	// ProxyAddress is an optional SOCKS5 proxy ("host:port") for backend requests.
	ProxyAddress string

	// Timeout is the per-request timeout for backend calls.
	Timeout time.Duration

	// CatalogFile is a YAML catalog used instead of the built-in sample data.
	CatalogFile string

	// Scale is the display scale for scores.
	Scale model.Scale

	// BatchSize is the number of concurrent analyses.
	BatchSize int

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// NoSave disables the SQLite store.
	NoSave bool

	// DBDir is the directory holding the SQLite database.
	DBDir string

	// Aliases maps short names to site identifiers.
	Aliases map[string]string

	// ConfigFilePath is an explicit config file path.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		Scale:     model.ScaleRank,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		Aliases:   make(map[string]string),
	}
}

// XDGDataDir returns the XDG data directory for privacyrank.
// On Linux: ~/.local/share/privacyrank
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for privacyrank.
// On Linux: ~/.config/privacyrank
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Targets returns the sites to analyze: Sites, or Selected when none were given.
func (c *Config) Targets() []string {
	if len(c.Sites) > 0 {
		return c.Sites
	}
	if c.Selected != "" {
		return []string{c.Selected}
	}
	return nil
}

// SaveEnabled reports whether results are persisted.
func (c *Config) SaveEnabled() bool {
	return !c.NoSave && c.DBDir != ""
}

// Validate checks the options shared by every command and returns the
// first problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if _, err := model.ParseScale(string(c.Scale)); err != nil {
		return ErrInvalidScale
	}
	if c.RemoteURL != "" {
		u, err := url.Parse(c.RemoteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidRemoteURL
		}
	}
	return nil
}

// ValidateTargets is Validate plus the requirement of at least one site.
func (c *Config) ValidateTargets() error {
	if len(c.Targets()) == 0 {
		return ErrNoTarget
	}
	return c.Validate()
}
