package provider

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// TestRemoteLoad tests fetching the site list.
func TestRemoteLoad(t *testing.T) {
	t.Parallel()

	t.Run("keeps backend order and applies defaults", func(t *testing.T) {
		t.Parallel()

		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/sites" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"zeta.com": {"privacy": 100, "security": 200, "lastScan": "Oct 1, 2025"},
				"alpha.com": {},
				"localhost": {"privacy": 1}
			}`))
		})

		var logs bytes.Buffer
		remote, err := NewRemote(srv.URL+"/api/", RemoteOptions{
			Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c, err := remote.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		names := c.Names()
		if len(names) != 2 || names[0] != "zeta.com" || names[1] != "alpha.com" {
			t.Fatalf("expected [zeta.com alpha.com], got %v", names)
		}
		if r, _ := c.Get("alpha.com"); r.Privacy != 0 || r.Security != 50 || r.LastScan != "recently" {
			t.Errorf("expected defaults, got %+v", r)
		}
		if r, _ := c.Get("zeta.com"); r.Privacy != 100 || r.Security != 200 || r.LastScan != "Oct 1, 2025" {
			t.Errorf("unexpected zeta.com: %+v", r)
		}
		if out := logs.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "site=localhost") {
			t.Errorf("expected a warning for the skipped site, got %q", out)
		}
	})

	t.Run("non-2xx status", func(t *testing.T) {
		t.Parallel()

		srv := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		remote, err := NewRemote(srv.URL, RemoteOptions{})
		if err != nil {
			t.Fatal(err)
		}

		_, err = remote.Load(context.Background())
		if !errors.Is(err, ErrRemoteStatus) {
			t.Fatalf("expected ErrRemoteStatus, got %v", err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %v", err)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		t.Parallel()

		srv := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[1, 2]`))
		})
		remote, _ := NewRemote(srv.URL, RemoteOptions{})
		if _, err := remote.Load(context.Background()); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		remote, _ := NewRemote(srv.URL, RemoteOptions{Timeout: 50 * time.Millisecond})
		if _, err := remote.Load(context.Background()); err == nil {
			t.Error("expected timeout error")
		}
	})
}

// TestRemoteAnalyze tests single site analysis.
func TestRemoteAnalyze(t *testing.T) {
	t.Parallel()

	seen := make(chan *http.Request, 1)
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"privacy": 610, "totalTrackers": 17}`))
	})

	remote, err := NewRemote(srv.URL+"/api", RemoteOptions{Token: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	r, err := remote.Analyze(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := <-seen
	if req.URL.Path != "/api/analyze/example.com" {
		t.Errorf("unexpected path %q", req.URL.Path)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer secret" {
		t.Errorf("unexpected auth header %q", got)
	}
	if r.Name != "example.com" || r.Privacy != 610 || r.Security != 50 || r.LastScan != "recently" || r.Trackers != 17 {
		t.Errorf("unexpected record: %+v", r)
	}
}

// TestNewRemote tests option validation.
func TestNewRemote(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"", "ftp://host", "not a url", "http://"} {
		if _, err := NewRemote(u, RemoteOptions{}); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}

	for _, addr := range []string{"127.0.0.1", "127.0.0.1:0", "127.0.0.1:70000", ":9050", "host:port"} {
		if _, err := NewRemote("http://example.com", RemoteOptions{ProxyAddress: addr}); !errors.Is(err, ErrInvalidProxyAddress) {
			t.Errorf("%q: expected ErrInvalidProxyAddress, got %v", addr, err)
		}
	}

	r, err := NewRemote("https://scores.example.com/api", RemoteOptions{ProxyAddress: "127.0.0.1:9050"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name() != "remote:scores.example.com" {
		t.Errorf("unexpected name %q", r.Name())
	}
}
