package metascan

import (
	"context"
	"errors"
	"net/http"
)

// Fetcher retrieves the raw HTML of a URL.
type Fetcher interface {
	// Fetch returns the document text.
	// Non-success responses are reported as *FetchError and transport
	// failures as *NetworkError. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// Mode selects the transport used to fetch pages.
type Mode string

// Supported transport modes.
const (
	ModeDirect  Mode = "direct"
	ModeProxy   Mode = "proxy"
	ModeBrowser Mode = "browser"
)

// DefaultProxyBase is the relay prefixed to URLs in proxy mode.
const DefaultProxyBase = "https://cors-anywhere.herokuapp.com/"

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDirect, ModeProxy, ModeBrowser:
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown transport mode %q", s)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Retryable reports whether a fetch failure may succeed on a later attempt:
// transport failures, throttling and server errors.
func Retryable(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode == http.StatusTooManyRequests || fe.StatusCode >= http.StatusInternalServerError
	}
	return false
}
