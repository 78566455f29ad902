package mock

import (
	"context"

	"github.com/fwojciec/metascan"
)

var _ metascan.InputStore = (*InputStore)(nil)

// InputStore is a mock implementation of metascan.InputStore.
type InputStore struct {
	LastInputFn func(ctx context.Context) (string, error)
	SaveInputFn func(ctx context.Context, input string) error
}

func (s *InputStore) LastInput(ctx context.Context) (string, error) {
	return s.LastInputFn(ctx)
}

func (s *InputStore) SaveInput(ctx context.Context, input string) error {
	return s.SaveInputFn(ctx, input)
}

var _ metascan.RunService = (*RunService)(nil)

// RunService is a mock implementation of metascan.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *metascan.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*metascan.Run, error)
	FindRunsFn    func(ctx context.Context, filter metascan.RunFilter) ([]*metascan.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *metascan.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*metascan.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter metascan.RunFilter) ([]*metascan.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
