// Package storage provides the key-value persistence used for favorites and
// settings. Each backend holds whole serialized values under string keys;
// callers do their own read-modify-write.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStorage wraps every failure reported by a backend.
var ErrStorage = errors.New("storage")

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Store reads and writes string values by key.
type Store interface {
	// Read returns the value and true, or "" and false when the key is absent.
	Read(key string) (string, bool, error)
	Write(key, value string) error
	Close() error
}

// Open returns the backend named by kind, rooted at dataDir.
func Open(kind, dataDir string) (Store, error) {
	switch strings.ToLower(kind) {
	case BackendSQLite, "":
		return OpenSQLite(dataDir)
	case BackendFile:
		return NewFileStore(dataDir)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrStorage, kind)
	}
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
