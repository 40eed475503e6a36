package sharedcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seqnotes/seqnotes-sync/internal/cache/keyhash"
	"github.com/seqnotes/seqnotes-sync/internal/config"
	"github.com/seqnotes/seqnotes-sync/internal/store"
)

// maxRequestIDLen is the longest request identifier the backend
// accepts; longer identifiers are truncated before hashing and
// transmission so client and server always agree on the key.
const maxRequestIDLen = 100

// Client reads and writes the shared api_cache table.
type Client struct {
	db     store.DBTX
	cfg    config.SharedCacheConfig
	logger *slog.Logger
}

// NewClient creates a shared-cache client over db.
func NewClient(db store.DBTX, cfg config.SharedCacheConfig, logger *slog.Logger) *Client {
	return &Client{
		db:     db,
		cfg:    cfg,
		logger: logger.With("component", "sharedcache"),
	}
}

// Get looks up a cached payload for the given source and request
// identifier. The second return is false when no live entry exists;
// expired entries read as absent.
func (c *Client) Get(ctx context.Context, source, requestID string) (json.RawMessage, bool, error) {
	key := Key(source, requestID)

	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT get_api_cache($1)`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("shared cache lookup for %q failed: %w", key, err)
	}
	if payload == nil {
		return nil, false, nil
	}

	c.logger.Debug("shared cache hit", "key", key, "source", source)
	return payload, true, nil
}

// Set stores a payload under the derived key with the TTL configured
// for its source.
func (c *Client) Set(ctx context.Context, source, requestID string, payload json.RawMessage) error {
	key := Key(source, requestID)
	ttl := c.TTLHours(source)

	_, err := c.db.ExecContext(ctx,
		`SELECT set_api_cache($1, $2, $3, $4, $5)`,
		key,
		normalize(source),
		Truncate(requestID),
		[]byte(payload),
		ttl,
	)
	if err != nil {
		return fmt.Errorf("shared cache write for %q failed: %w", key, err)
	}

	c.logger.Debug("shared cache write", "key", key, "source", source, "ttl_hours", ttl)
	return nil
}

// TTLHours resolves the retention for a source's entries, falling back
// to the configured default for sources without an explicit setting.
func (c *Client) TTLHours(source string) int {
	if hours, ok := c.cfg.SourceTTLHours[normalize(source)]; ok {
		return hours
	}
	return c.cfg.DefaultTTLHours
}

// Key derives the shared-cache key for a lookup, truncating the
// request identifier first so overlong identifiers hash the same way
// the backend stores them.
func Key(source, requestID string) string {
	return keyhash.Hash(source, Truncate(requestID))
}

// Truncate clips a request identifier to the backend's length limit.
func Truncate(requestID string) string {
	runes := []rune(requestID)
	if len(runes) <= maxRequestIDLen {
		return requestID
	}
	return string(runes[:maxRequestIDLen])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
