package provider

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/privacyrank/internal/model"
)

// Provider loads a catalog from a single source.
type Provider interface {
	// Name identifies the source in reports and logs.
	Name() string

	// Load fetches the catalog. Implementations honor ctx cancellation
	// when they block.
	Load(ctx context.Context) (*model.Catalog, error)
}

// FallbackWarning is shown when the primary source failed and the sample
// data is used instead.
const FallbackWarning = "backend not responding. using sample data instead"

// Result is the outcome of LoadWithFallback.
type Result struct {
	// Catalog is never nil on success.
	Catalog *model.Catalog

	// Source is the Name of the provider that produced Catalog.
	Source string

	// Warning is non-empty when the fallback was used.
	Warning string

	// PrimaryErr is the error of the primary provider, if it failed.
	PrimaryErr error
}

// UsedFallback reports whether the fallback provider produced the catalog.
func (r Result) UsedFallback() bool {
	return r.PrimaryErr != nil
}

// LoadWithFallback loads primary once. When primary is nil or fails, the
// catalog comes from fallback and, in the failure case, Result.Warning is
// set. An error is returned only when fallback fails too.
func LoadWithFallback(ctx context.Context, primary, fallback Provider, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var primaryErr error
	if primary != nil {
		catalog, err := primary.Load(ctx)
		if err == nil {
			logger.Debug("catalog loaded", "source", primary.Name(), "sites", catalog.Len())
			return Result{Catalog: catalog, Source: primary.Name()}, nil
		}
		primaryErr = err
		logger.Warn("primary catalog source failed, falling back",
			"source", primary.Name(),
			"fallback", fallback.Name(),
			"error", err,
		)
	}

	catalog, err := fallback.Load(ctx)
	if err != nil {
		if primaryErr != nil {
			return Result{}, fmt.Errorf("fallback %s failed after %s failed (%v): %w",
				fallback.Name(), primary.Name(), primaryErr, err)
		}
		return Result{}, fmt.Errorf("failed to load catalog from %s: %w", fallback.Name(), err)
	}

	result := Result{Catalog: catalog, Source: fallback.Name(), PrimaryErr: primaryErr}
	if primaryErr != nil {
		result.Warning = FallbackWarning
	}
	return result, nil
}

// Fingerprint returns a SHA3-256 digest of the catalog's records in order.
// Two catalogs with the same records in the same order share a fingerprint.
func Fingerprint(catalog *model.Catalog) string {
	h := sha3.New256()
	for _, r := range catalog.Records() {
		for _, field := range []string{
			r.Name,
			strconv.Itoa(r.Privacy),
			strconv.Itoa(r.Security),
			r.LastScan,
			strconv.Itoa(r.Trackers),
		} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
