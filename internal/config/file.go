package config

import (
	"time"

	"github.com/nao1215/privacyrank/internal/model"
)

// RemoteFile is the "remote" section of the config file.
type RemoteFile struct {
	URL     string        `yaml:"url,omitempty"`
	Token   string        `yaml:"token,omitempty"`
	Proxy   string        `yaml:"proxy,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// File represents the structure of the .privacyrank configuration file.
type File struct {
	// Catalog is a path to a YAML catalog. Relative paths are resolved
	// against the config file's directory.
	Catalog string `yaml:"catalog,omitempty"`

	// Scale is "rank" or "percentage".
	Scale string `yaml:"scale,omitempty"`

	// Selected is the default site.
	Selected string `yaml:"selected,omitempty"`

	Remote RemoteFile `yaml:"remote,omitempty"`

	// Aliases maps short names (e.g. "fb") to site identifiers.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// DataDir overrides the database directory.
	DataDir string `yaml:"dataDir,omitempty"`
}

// Apply copies file values into cfg for every option the user did not
// set explicitly. set reports whether a flag was given on the command line.
func (f *File) Apply(cfg *Config, set func(flag string) bool) {
	if set == nil {
		set = func(string) bool { return false }
	}
	if f.Catalog != "" && !set("catalog") {
		cfg.CatalogFile = f.Catalog
	}
	if f.Scale != "" && !set("scale") {
		cfg.Scale = model.Scale(f.Scale)
	}
	if f.Selected != "" && cfg.Selected == "" {
		cfg.Selected = f.Selected
	}
	if f.Remote.URL != "" && !set("remote") {
		cfg.RemoteURL = f.Remote.URL
	}
	if f.Remote.Token != "" && cfg.RemoteToken == "" {
		cfg.RemoteToken = f.Remote.Token
	}
	if f.Remote.Proxy != "" && !set("proxy") {
		cfg.ProxyAddress = f.Remote.Proxy
	}
	if f.Remote.Timeout > 0 && !set("timeout") {
		cfg.Timeout = f.Remote.Timeout
	}
	if f.DataDir != "" && !set("data-dir") {
		cfg.DBDir = f.DataDir
	}
	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]string)
	}
	for k, v := range f.Aliases {
		if _, ok := cfg.Aliases[k]; !ok {
			cfg.Aliases[k] = v
		}
	}
}
