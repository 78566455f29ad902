// Package fs provides file-based storage for saved batch input.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/metascan"
)

// Ensure InputStore implements metascan.InputStore at compile time.
var _ metascan.InputStore = (*InputStore)(nil)

// InputStore keeps the last batch input in a single file under dir.
// Saves write a temporary file and rename it over the previous one.
type InputStore struct {
	dir string
}

// NewInputStore creates an InputStore rooted at dir.
// The directory is created on first save.
func NewInputStore(dir string) *InputStore {
	return &InputStore{dir: dir}
}

// Path returns the file holding the saved input.
func (s *InputStore) Path() string {
	return filepath.Join(s.dir, metascan.InputKey+".txt")
}

// LastInput returns the saved input, or "" if nothing was saved.
func (s *InputStore) LastInput(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveInput replaces the saved input.
func (s *InputStore) SaveInput(ctx context.Context, input string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, metascan.InputKey+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(input); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.Path())
}
