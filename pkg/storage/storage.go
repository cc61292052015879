package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value exists for the key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrKeyRequired is returned when an operation receives an empty key.
	ErrKeyRequired = errors.New("storage: key required")
)

// Store is the durable key-value medium behind the content store. Values are
// opaque JSON documents; each key holds a whole collection.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by stores holding external resources.
type Closer interface {
	Close() error
}

// CapabilityReporter exposes optional backend features so callers can make
// runtime decisions (for example, warning when data will not survive a restart).
type CapabilityReporter interface {
	Capabilities() Capabilities
}

// Config captures the runtime configuration for a durable store backend.
type Config struct {
	// Provider selects the backend: memory, file, or sqlite.
	Provider string
	// Path is the directory for the file backend or the database file for sqlite.
	Path string
}

// Capabilities documents optional behaviours supported by a backend.
type Capabilities struct {
	Durable  bool
	Metadata map[string]any
}
