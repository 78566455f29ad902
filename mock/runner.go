package mock

import (
	"context"

	"github.com/fwojciec/metascan"
)

var _ metascan.BatchRunner = (*BatchRunner)(nil)

// BatchRunner is a mock implementation of metascan.BatchRunner.
type BatchRunner struct {
	RunBatchFn func(ctx context.Context, input string) (*metascan.BatchResult, error)
}

func (r *BatchRunner) RunBatch(ctx context.Context, input string) (*metascan.BatchResult, error) {
	return r.RunBatchFn(ctx, input)
}
