package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one file per key under dir.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrap("create data dir", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: invalid key %q", ErrStorage, key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileStore) Read(key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, wrap("read "+key, err)
	}
	return string(data), true, nil
}

// Write replaces the file atomically via a temp file and rename.
func (f *FileStore) Write(key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return wrap("write "+key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return wrap("write "+key, err)
	}
	if err := tmp.Close(); err != nil {
		return wrap("write "+key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return wrap("write "+key, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
