// Package http provides the HTTP implementation of metascan.Fetcher, in
// direct mode or relayed through a URL-prefix proxy.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/metascan"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies metascan to the sites it fetches.
const DefaultUserAgent = "metascan/1.0"

// Ensure Fetcher implements metascan.Fetcher at compile time.
var _ metascan.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// It does not execute JavaScript. Fetcher is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	proxyBase string
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProxy relays every request through a proxy that takes the target
// URL appended to its base (e.g. "https://cors-anywhere.herokuapp.com/").
func WithProxy(base string) Option {
	return func(f *Fetcher) {
		f.proxyBase = base
	}
}

// WithClient sets the HTTP client the fetcher copies. The copy's timeout
// is replaced by the configured timeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	client := &http.Client{}
	if f.client != nil {
		*client = *f.client
	}
	client.Timeout = f.timeout
	f.client = client

	return f
}

// Fetch retrieves the HTML content from the given URL.
// Non-2xx responses return *metascan.FetchError; transport failures,
// including timeouts, return *metascan.NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	target := f.proxyBase + url

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", metascan.Errorf(metascan.EINVALID, "invalid request URL %q: %v", target, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.proxyBase != "" {
		// cors-anywhere style relays refuse requests without an origin marker.
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &metascan.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &metascan.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &metascan.NetworkError{URL: url, Err: err}
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
