package scan

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/metascan"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays used by the CLI when
// retries are requested: 1s, 2s, 4s, capped at n entries. A negative n
// yields no delays.
func DefaultRetryDelays(n int) []time.Duration {
	n = max(n, 0)
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for range n {
		delays = append(delays, d)
		if d < 4*time.Second {
			d *= 2
		}
	}
	return delays
}

// FetchWithRetryDelays calls fetch until it succeeds, the error is not
// metascan.Retryable, or the delays are exhausted. Each retry is logged
// when logger is non-nil.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !metascan.Retryable(err) {
			break
		}

		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
