// Package storage defines the key-value backends game state is persisted to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a durable key-value store holding opaque documents.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindBolt   = "bolt"
	KindSQLite = "sqlite"
)

// Open opens a backend by kind. path is a directory for file backends and a
// database file for bolt and sqlite; it is ignored for memory.
func Open(kind, path string) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMemory, "":
		return NewMemory(), nil
	case KindFile:
		backend, err = OpenFile(path)
	case KindBolt:
		backend, err = OpenBolt(path)
	case KindSQLite:
		backend, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key is required")
	}
	return nil
}
