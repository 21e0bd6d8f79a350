package provider

import (
	"context"
	"fmt"

	"github.com/nao1215/privacyrank/internal/model"
)

// CatalogLoader is implemented by storage that can return a persisted catalog.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*model.Catalog, error)
}

// Store serves the catalog persisted in local storage.
type Store struct {
	loader CatalogLoader
}

// NewStore creates a provider backed by loader.
func NewStore(loader CatalogLoader) *Store {
	return &Store{loader: loader}
}

// Name implements Provider.
func (s *Store) Name() string {
	return "store"
}

// Load implements Provider. An empty store is an error so that callers
// fall back to the sample data.
func (s *Store) Load(ctx context.Context) (*model.Catalog, error) {
	catalog, err := s.loader.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: store is empty", ErrCatalogFormat)
	}
	return catalog, nil
}
