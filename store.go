package metascan

import (
	"context"
	"time"
)

// InputStore persists the last batch input between invocations.
type InputStore interface {
	// LastInput returns the most recently saved input, or "" if none.
	LastInput(ctx context.Context) (string, error)

	// SaveInput replaces the saved input.
	SaveInput(ctx context.Context, input string) error
}

// Run is a persisted batch.
type Run struct {
	ID        string       `json:"id"`
	Input     string       `json:"input"`
	Variant   Variant      `json:"variant"`
	Mode      Mode         `json:"mode"`
	Records   int          `json:"records"`
	Errors    int          `json:"errors"`
	CreatedAt time.Time    `json:"createdAt"`
	Result    *BatchResult `json:"result,omitempty"` // only set by FindRunByID
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Result == nil {
		return Errorf(EINVALID, "run result required")
	}
	return nil
}

// RunService represents a service for managing batch history.
type RunService interface {
	// CreateRun persists a run and its result, assigning ID and CreatedAt.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run with its full result.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs without results, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Variant *Variant `json:"variant"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
