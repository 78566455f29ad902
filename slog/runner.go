package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/metascan"
)

// Ensure LoggingRunner implements metascan.BatchRunner.
var _ metascan.BatchRunner = (*LoggingRunner)(nil)

// LoggingRunner wraps a BatchRunner with a summary line per batch.
type LoggingRunner struct {
	next   metascan.BatchRunner
	logger *slog.Logger
}

// NewLoggingRunner creates a new LoggingRunner.
func NewLoggingRunner(next metascan.BatchRunner, logger *slog.Logger) *LoggingRunner {
	return &LoggingRunner{next: next, logger: logger}
}

// RunBatch delegates to the wrapped runner and logs record and error counts.
func (r *LoggingRunner) RunBatch(ctx context.Context, input string) (result *metascan.BatchResult, err error) {
	defer func(begin time.Time) {
		var records, failed int
		if result != nil {
			records, failed = len(result.Records), len(result.Errors)
		}
		r.logger.Info("batch",
			"records", records,
			"errors", failed,
			"duration", time.Since(begin),
			"err", err,
		)
		if result == nil {
			return
		}
		for _, e := range result.Errors {
			r.logger.Debug("page failed", "url", e.URL, "message", e.Message)
		}
	}(time.Now())
	return r.next.RunBatch(ctx, input)
}
