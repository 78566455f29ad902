package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/metascan"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ metascan.RunService = (*RunService)(nil)

// RunService implements metascan.RunService using SQLite.
// Records are stored as JSON blobs alongside their queryable columns.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores the run and its result in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *metascan.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()
	run.Records = len(run.Result.Records)
	run.Errors = len(run.Result.Errors)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, input, variant, mode, records, errors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Input, string(run.Variant), string(run.Mode), run.Records, run.Errors,
		formatTime(run.CreatedAt)); err != nil {
		return err
	}

	for i, rec := range run.Result.Records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.URL, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (run_id, position, url, page_type, schema_state, data)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, i, rec.URL, string(rec.PageType), string(rec.Schema.State), data); err != nil {
			return err
		}
	}

	for i, pe := range run.Result.Errors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO page_errors (run_id, position, url, message)
			VALUES (?, ?, ?, ?)
		`, run.ID, i, pe.URL, pe.Message); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run with its records and errors in input order.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*metascan.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, input, variant, mode, records, errors, created_at
		FROM runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, metascan.Errorf(metascan.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	result := &metascan.BatchResult{
		Records: []*metascan.PageRecord{},
		Errors:  []*metascan.PageError{},
	}

	rows, err := s.db.QueryContext(ctx, `SELECT data FROM records WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec metascan.PageRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		result.Records = append(result.Records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	errRows, err := s.db.QueryContext(ctx, `SELECT url, message FROM page_errors WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer errRows.Close()

	for errRows.Next() {
		var pe metascan.PageError
		if err := errRows.Scan(&pe.URL, &pe.Message); err != nil {
			return nil, err
		}
		result.Errors = append(result.Errors, &pe)
	}
	if err := errRows.Err(); err != nil {
		return nil, err
	}

	run.Result = result
	return run, nil
}

// FindRuns retrieves run summaries, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter metascan.RunFilter) ([]*metascan.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, input, variant, mode, records, errors, created_at FROM runs WHERE 1=1")

	if filter.Variant != nil {
		query.WriteString(" AND variant = ?")
		args = append(args, string(*filter.Variant))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*metascan.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*metascan.Run, error) {
	var run metascan.Run
	var variant, mode, createdAt string

	if err := row.Scan(&run.ID, &run.Input, &variant, &mode, &run.Records, &run.Errors, &createdAt); err != nil {
		return nil, err
	}
	run.Variant = metascan.Variant(variant)
	run.Mode = metascan.Mode(mode)

	var err error
	if run.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
