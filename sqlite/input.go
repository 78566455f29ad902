package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/metascan"
)

var _ metascan.InputStore = (*InputStore)(nil)

// InputStore implements metascan.InputStore using SQLite.
type InputStore struct {
	db *DB
}

// NewInputStore creates a new InputStore.
func NewInputStore(db *DB) *InputStore {
	return &InputStore{db: db}
}

// LastInput returns the saved input, or "" if nothing was saved.
func (s *InputStore) LastInput(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM inputs WHERE key = ?`, metascan.InputKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SaveInput replaces the saved input.
func (s *InputStore) SaveInput(ctx context.Context, input string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inputs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, metascan.InputKey, input, formatTime(time.Now()))
	return err
}
