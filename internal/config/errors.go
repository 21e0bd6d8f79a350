package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when a command that needs a site got none.
	ErrNoTarget = errors.New("no target specified: provide a website or set 'selected' in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidScale is returned for a scale other than rank or percentage.
	ErrInvalidScale = errors.New("invalid scale: must be 'rank' or 'percentage'")

	// ErrInvalidRemoteURL is returned when the backend URL is not http(s).
	ErrInvalidRemoteURL = errors.New("invalid remote URL: must be an absolute http or https URL")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
