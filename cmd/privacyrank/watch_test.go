package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/provider"
)

// TestWatchCatalog tests reloading on catalog changes.
func TestWatchCatalog(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, "sites:\n  - name: a.com\n    privacy: 800\n    security: 800\n")
	file := provider.NewFile(path)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	renders := make(chan *model.Catalog, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchCatalog(ctx, file, logger, func(c *model.Catalog) error {
			renders <- c
			return nil
		})
	}()

	next := func() *model.Catalog {
		t.Helper()
		select {
		case c := <-renders:
			return c
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for render")
			return nil
		}
	}

	first := next()
	if r, ok := first.Get("a.com"); !ok || r.Privacy != 800 {
		t.Fatalf("unexpected initial catalog: %+v", first.Records())
	}

	if err := os.WriteFile(path, []byte("sites:\n  - name: a.com\n    privacy: 300\n    security: 800\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// A write may be observed half-done; wait for the final content.
	for {
		if r, ok := next().Get("a.com"); ok && r.Privacy == 300 {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

// TestWatchCatalogInvalidInitialFile tests that a broken catalog fails fast.
func TestWatchCatalogInvalidInitialFile(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, "sites: [")
	err := watchCatalog(context.Background(), provider.NewFile(path), slog.New(slog.NewTextHandler(io.Discard, nil)),
		func(*model.Catalog) error { return nil })
	if !errors.Is(err, provider.ErrCatalogFormat) {
		t.Errorf("expected ErrCatalogFormat, got %v", err)
	}
}

// TestWatchCmdNeedsCatalog tests the missing catalog error.
func TestWatchCmdNeedsCatalog(t *testing.T) {
	t.Parallel()

	if _, _, err := runCLI(t, "watch"); !errors.Is(err, errWatchNeedsCatalog) {
		t.Errorf("expected errWatchNeedsCatalog, got %v", err)
	}
}
