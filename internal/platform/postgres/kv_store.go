package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seqnotes/seqnotes-sync/internal/platform/logger"
	"github.com/seqnotes/seqnotes-sync/internal/store"
)

// KVStore implements the store.KV interface using PostgreSQL.
// Values land in the local_kv table as jsonb; every value this
// application persists (cache envelopes, the pending mutation list)
// is JSON already.
type KVStore struct {
	db store.DBTX
}

// NewKVStore creates a new KVStore over db.
func NewKVStore(db store.DBTX) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves the raw value stored under key.
// Returns store.ErrKeyNotFound if the key does not exist.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM local_kv WHERE key = $1`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrKeyNotFound
		}
		logger.FromContext(ctx).Error("failed to read key", "key", key, "error", err)
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any prior value.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO local_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		logger.FromContext(ctx).Error("failed to write key", "key", key, "error", err)
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key. No-op if absent.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM local_kv WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys with the given prefix.
func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT key FROM local_kv WHERE key LIKE $1 || '%' ORDER BY key`

	rows, err := s.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %q: %w", prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys: %w", err)
	}
	return keys, nil
}

// Clear removes every key with the given prefix.
func (s *KVStore) Clear(ctx context.Context, prefix string) error {
	query := `DELETE FROM local_kv WHERE key LIKE $1 || '%'`

	if _, err := s.db.ExecContext(ctx, query, prefix); err != nil {
		return fmt.Errorf("failed to clear prefix %q: %w", prefix, err)
	}
	return nil
}
