package provider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSiteNotFound is returned when a site is neither in the catalog nor
	// obtainable from a remote backend. Use errors.As with *SiteNotFoundError
	// to get the list of known sites.
	ErrSiteNotFound = errors.New("site not in sample data")

	// ErrRemoteStatus is returned when the remote backend answers with a
	// non-2xx status code.
	ErrRemoteStatus = errors.New("unexpected status from remote backend")

	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// host:port format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrCatalogFormat is returned when a catalog document cannot be used.
	ErrCatalogFormat = errors.New("invalid catalog")
)

// SiteNotFoundError reports a lookup miss together with the sites the user
// could try instead.
type SiteNotFoundError struct {
	Site  string
	Known []string
}

// NewSiteNotFoundError creates a SiteNotFoundError.
func NewSiteNotFoundError(site string, known []string) *SiteNotFoundError {
	return &SiteNotFoundError{Site: site, Known: known}
}

// Error implements error.
func (e *SiteNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return ErrSiteNotFound.Error()
	}
	return fmt.Sprintf("%s. try: %s", ErrSiteNotFound, strings.Join(e.Known, ", "))
}

// Is makes errors.Is(err, ErrSiteNotFound) succeed.
func (e *SiteNotFoundError) Is(target error) bool {
	return target == ErrSiteNotFound
}

// StatusError carries the HTTP status returned by the remote backend.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrRemoteStatus, e.URL, e.StatusCode)
}

// Unwrap returns ErrRemoteStatus.
func (e *StatusError) Unwrap() error {
	return ErrRemoteStatus
}
