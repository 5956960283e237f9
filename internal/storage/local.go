package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores uploaded images on the local filesystem under a public
// directory served at /uploads/.
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed and returns a Local store.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (l *Local) Dir() string { return l.dir }

// Save writes the upload to disk. A partial file from a failed copy is
// removed so post creation can abort cleanly.
func (l *Local) Save(_ context.Context, filename, _ string, body io.Reader, size int64) error {
	path := filepath.Join(l.dir, filepath.Base(filename))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, io.LimitReader(body, size)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close upload file: %w", err)
	}
	return nil
}

// Remove deletes a stored upload. Missing files are not an error.
func (l *Local) Remove(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(l.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
