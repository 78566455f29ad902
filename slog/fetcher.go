// Package slog provides log/slog decorators for metascan services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/metascan"
)

// Ensure LoggingFetcher implements metascan.Fetcher.
var _ metascan.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with one log line per fetch.
type LoggingFetcher struct {
	next   metascan.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next metascan.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the URL, size and outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		attrs := []any{
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, "code", metascan.ErrorCode(err), "err", err)
		}
		f.logger.Log(ctx, level, "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
