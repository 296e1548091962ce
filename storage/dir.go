package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Dir stores each key in its own file of a directory, the way a browser local
// storage keeps one entry per key.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path. The directory is created on first Put.
func NewDir(path string) *Dir { return &Dir{path: path} }

// Path returns the directory.
func (d *Dir) Path() string { return d.path }

// filename maps a key to a file, keys are path escaped.
func (d *Dir) filename(key string) string {
	return filepath.Join(d.path, url.PathEscape(key)+".json")
}

// Get reads the content of key.
func (d *Dir) Get(_ context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(d.filename(key))
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", key, err)
	}
	return content, nil
}

// Put replaces the content of key. The file is written aside and renamed so
// that a crash never leaves a truncated snapshot.
func (d *Dir) Put(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("cannot create storage folder %q: %w", d.path, err)
	}
	f, err := os.CreateTemp(d.path, ".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := os.Rename(tmp, d.filename(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	return nil
}
