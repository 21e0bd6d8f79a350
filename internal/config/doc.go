// Package config holds privacyrank's runtime configuration: the flat
// Config built from command-line flags and the optional .privacyrank
// YAML file that supplies defaults for them.
package config
