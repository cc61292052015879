package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/valarz/go-press/pkg/storage"
)

const (
	ProviderMemory = "memory"
	ProviderFile   = "file"
	ProviderSQLite = "sqlite"
)

// Open builds the durable store described by cfg.
func Open(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderMemory:
		return NewMemoryStore(), nil
	case ProviderFile:
		return NewFileStore(cfg.Path)
	case ProviderSQLite:
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}
