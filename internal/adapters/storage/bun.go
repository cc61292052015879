package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/valarz/go-press/pkg/storage"
)

const sqliteMemoryDSN = "file::memory:?cache=shared"

// kvEntry is one collection document stored in the press_kv table.
type kvEntry struct {
	bun.BaseModel `bun:"table:press_kv,alias:kv"`

	Key       string    `bun:"entry_key,pk"`
	Value     string    `bun:"entry_value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunStore keeps collection documents in a single key/value table.
type BunStore struct {
	db    *bun.DB
	owned bool
	now   func() time.Time
}

var _ storage.Store = (*BunStore)(nil)

// NewBunStore wraps an existing database handle and ensures the table exists.
// The caller keeps ownership of db.
func NewBunStore(ctx context.Context, db *bun.DB) (*BunStore, error) {
	if db == nil {
		return nil, errors.New("bun store: database required")
	}
	if _, err := db.NewCreateTable().Model((*kvEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("bun store: create table: %w", err)
	}
	return &BunStore{db: db, now: time.Now}, nil
}

// OpenSQLite opens a sqlite database at path (in-memory when empty) and
// returns a store that closes the database on Close.
func OpenSQLite(ctx context.Context, path string) (*BunStore, error) {
	dsn := strings.TrimSpace(path)
	if dsn == "" || dsn == ":memory:" {
		dsn = sqliteMemoryDSN
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("bun store: open sqlite: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	store, err := NewBunStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}

func (s *BunStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(ctx, key); err != nil {
		return nil, err
	}
	var entry kvEntry
	if err := s.db.NewSelect().Model(&entry).Where("entry_key = ?", key).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("bun store: get %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (s *BunStore) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	entry := &kvEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: s.now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (entry_key) DO UPDATE").
		Set("entry_value = EXCLUDED.entry_value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("bun store: put %s: %w", key, err)
	}
	return nil
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}
	if _, err := s.db.NewDelete().Model((*kvEntry)(nil)).Where("entry_key = ?", key).Exec(ctx); err != nil {
		return fmt.Errorf("bun store: delete %s: %w", key, err)
	}
	return nil
}

// Close releases the database when the store opened it.
func (s *BunStore) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

func (s *BunStore) Capabilities() storage.Capabilities {
	return storage.Capabilities{
		Durable:  true,
		Metadata: map[string]any{"table": "press_kv"},
	}
}
