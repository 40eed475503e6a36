package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/seqnotes/seqnotes-sync/internal/store"
)

// Metadata describes a cached value together with its freshness.
type Metadata struct {
	Data     json.RawMessage
	CachedAt time.Time
	Age      time.Duration
	TTL      time.Duration
	IsStale  bool
}

// Result is what GetStaleWhileRevalidate hands back: the value plus
// whether it was already past its TTL when served.
type Result struct {
	Data    json.RawMessage
	IsStale bool
}

// Fetcher produces a fresh value for a cache key, typically by calling
// a remote service. Any timeout must be enforced inside the fetcher;
// the cache layer imposes none.
type Fetcher func(ctx context.Context) (json.RawMessage, error)

// Store is a TTL cache over a KV backend, scoped to one key namespace.
// Stores are plain constructed values; callers inject them wherever
// needed rather than reaching for package state.
type Store struct {
	kv        store.KV
	namespace string
	now       func() time.Time
	logger    *slog.Logger
	onRefresh func(key string, err error)
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for swallowed storage and refresh errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithRefreshObserver registers a callback invoked after every
// background refresh completes, with the refreshed key and the fetch
// or write error, if any. Used for metrics and by tests to synchronize
// with the detached refresh task.
func WithRefreshObserver(fn func(key string, err error)) Option {
	return func(s *Store) {
		s.onRefresh = fn
	}
}

// NewStore creates a TTL cache over kv. All keys are stored under the
// given namespace prefix, so distinct stores never overlap as long as
// their namespaces differ.
func NewStore(kv store.KV, namespace string, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		namespace: namespace,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "cache", "namespace", namespace)
	return s
}

func (s *Store) storageKey(key string) string {
	return s.namespace + ":" + key
}

// Get returns the cached value for key regardless of staleness.
// The second return is false when no entry exists. Storage failures
// are fail-open: they log and read as a miss, never as an error.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	e, ok := s.read(ctx, key)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// GetWithMetadata returns the cached value along with its age and
// staleness relative to the TTL it was stored with.
func (s *Store) GetWithMetadata(ctx context.Context, key string) (*Metadata, bool) {
	e, ok := s.read(ctx, key)
	if !ok {
		return nil, false
	}

	cachedAt := time.UnixMilli(e.CachedAt)
	ttl := time.Duration(e.TTLMs) * time.Millisecond
	age := s.now().Sub(cachedAt)

	return &Metadata{
		Data:     e.Value,
		CachedAt: cachedAt,
		Age:      age,
		TTL:      ttl,
		IsStale:  age > ttl,
	}, true
}

// Set writes value under key with cachedAt = now. The entry fully
// replaces any prior one.
func (s *Store) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	e := entry{
		Value:    value,
		CachedAt: s.now().UnixMilli(),
		TTLMs:    ttl.Milliseconds(),
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %q: %w", key, err)
	}

	if err := s.kv.Set(ctx, s.storageKey(key), raw); err != nil {
		return store.NewStoreError(key, "set", "cache write failed", err)
	}
	return nil
}

// Remove deletes the entry for key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.kv.Remove(ctx, s.storageKey(key))
}

// Clear removes every entry in this store's namespace.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Clear(ctx, s.namespace+":")
}

// GetStaleWhileRevalidate implements the stale-while-revalidate read:
//
//   - fresh hit: return the value, no fetch.
//   - stale hit: return the value immediately and refresh it in a
//     detached background task whose errors only reach the log.
//   - miss: await the fetcher, write the result back best-effort, and
//     return it. A fetch failure here propagates to the caller, since
//     no cached fallback exists.
func (s *Store) GetStaleWhileRevalidate(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetch Fetcher,
) (*Result, error) {
	if meta, ok := s.GetWithMetadata(ctx, key); ok {
		if !meta.IsStale {
			return &Result{Data: meta.Data, IsStale: false}, nil
		}

		s.refreshInBackground(ctx, key, ttl, fetch)
		return &Result{Data: meta.Data, IsStale: true}, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.Set(ctx, key, data, ttl); err != nil {
		// Persistence is best-effort on the read path; the caller
		// still gets the fetched value.
		s.logger.Warn("cache write failed after fetch", "key", key, "error", err)
	}

	return &Result{Data: data, IsStale: false}, nil
}

// refreshInBackground launches the detached refresh task for a stale
// entry. The task must never be awaited by the caller that already
// received the stale value, and it must survive that caller's
// cancellation, so it runs on a context stripped of the deadline and
// cancel signal.
func (s *Store) refreshInBackground(ctx context.Context, key string, ttl time.Duration, fetch Fetcher) {
	bg := context.WithoutCancel(ctx)

	go func() {
		data, err := fetch(bg)
		if err == nil {
			err = s.Set(bg, key, data, ttl)
		}
		if err != nil {
			s.logger.Warn("background refresh failed", "key", key, "error", err)
		} else {
			s.logger.Debug("background refresh completed", "key", key)
		}
		if s.onRefresh != nil {
			s.onRefresh(key, err)
		}
	}()
}

// read loads and decodes the envelope for key, folding every failure
// mode (absent key, storage error, corrupt envelope) into a miss.
func (s *Store) read(ctx context.Context, key string) (*entry, bool) {
	raw, err := s.kv.Get(ctx, s.storageKey(key))
	if err != nil {
		if !store.IsNotFound(err) {
			s.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.logger.Warn("corrupt cache entry, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return &e, true
}
