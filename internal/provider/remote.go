package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/privacyrank/internal/model"
	"github.com/nao1215/privacyrank/internal/site"
)

// DefaultLastScan is used when the backend does not report a scan time.
const DefaultLastScan = "recently"

// maxResponseBytes bounds the size of a backend response body.
const maxResponseBytes = 4 << 20

// RemoteOptions configures a Remote provider.
type RemoteOptions struct {
	// Token is sent as a bearer token when non-empty.
	Token string

	// ProxyAddress routes requests through a SOCKS5 proxy ("host:port").
	ProxyAddress string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// HTTPClient overrides the client built from the other options.
	HTTPClient *http.Client

	// Logger receives warnings about skipped sites. Defaults to slog.Default().
	Logger *slog.Logger
}

// Remote fetches scores from an analysis backend.
//
// The backend exposes two endpoints below its base URL:
//
//	GET /sites           -> {"google.ca": {"privacy": 606, "security": 714, "lastScan": "..."}, ...}
//	GET /analyze/{site}  -> {"privacy": 606, "security": 714, "lastScan": "...", "totalTrackers": 12}
type Remote struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
}

// NewRemote creates a provider for the backend at baseURL.
func NewRemote(baseURL string, opts RemoteOptions) (*Remote, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid remote URL %q", baseURL)
	}

	client := opts.HTTPClient
	if client == nil {
		client, err = newHTTPClient(opts)
		if err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{baseURL: u, client: client, logger: logger}, nil
}

func newHTTPClient(opts RemoteOptions) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ProxyAddress != "" {
		if !isValidProxyAddress(opts.ProxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	var rt http.RoundTripper = transport
	if opts.Token != "" {
		rt = &bearerTransport{base: transport, token: opts.Token}
	}
	return &http.Client{Transport: rt, Timeout: opts.Timeout}, nil
}

// isValidProxyAddress checks for "host:port" with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// bearerTransport adds an Authorization header to every request.
type bearerTransport struct {
	base  http.RoundTripper
	token string
}

// RoundTrip implements http.RoundTripper.
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}

// Name implements Provider.
func (r *Remote) Name() string {
	return "remote:" + r.baseURL.Host
}

// remoteScores is the per-site payload of both endpoints. Pointers
// distinguish absent fields from zero.
type remoteScores struct {
	Privacy       *int   `json:"privacy"`
	Security      *int   `json:"security"`
	LastScan      string `json:"lastScan"`
	TotalTrackers int    `json:"totalTrackers"`
}

func (s remoteScores) record(name string) model.SiteRecord {
	r := model.SiteRecord{
		Name:     name,
		Privacy:  model.DefaultPrivacy,
		Security: model.DefaultSecurity,
		LastScan: s.LastScan,
		Trackers: s.TotalTrackers,
	}
	if s.Privacy != nil {
		r.Privacy = *s.Privacy
	}
	if s.Security != nil {
		r.Security = *s.Security
	}
	if r.LastScan == "" {
		r.LastScan = DefaultLastScan
	}
	return r
}

// Load implements Provider by fetching /sites.
// Sites keep the order in which the backend listed them.
func (r *Remote) Load(ctx context.Context) (*model.Catalog, error) {
	body, err := r.get(ctx, "sites")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	catalog := model.NewCatalog()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode sites: %w", err)
		}
		key, _ := tok.(string)

		var scores remoteScores
		if err := dec.Decode(&scores); err != nil {
			return nil, fmt.Errorf("failed to decode site %q: %w", key, err)
		}

		name, err := site.Normalize(key)
		if err != nil {
			r.logger.Warn("skipping backend site", "site", key, "error", err)
			continue
		}
		catalog.Put(scores.record(name))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Analyze asks the backend to score one site. name must be normalized.
func (r *Remote) Analyze(ctx context.Context, name string) (model.SiteRecord, error) {
	body, err := r.get(ctx, "analyze", name)
	if err != nil {
		return model.SiteRecord{}, err
	}
	defer body.Close()

	var scores remoteScores
	if err := json.NewDecoder(body).Decode(&scores); err != nil {
		return model.SiteRecord{}, fmt.Errorf("failed to decode analysis of %s: %w", name, err)
	}
	return scores.record(name), nil
}

func (r *Remote) get(ctx context.Context, segments ...string) (io.ReadCloser, error) {
	u := r.baseURL.JoinPath(segments...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", u.Redacted(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: u.Redacted(), StatusCode: resp.StatusCode}
	}
	return readCloser{Reader: io.LimitReader(resp.Body, maxResponseBytes), Closer: resp.Body}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode sites: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("failed to decode sites: %w", errors.New("expected a JSON object"))
	}
	return nil
}
