package loader

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/seqnotes/seqnotes-sync/internal/cache"
)

// Fetch produces a fresh value for a loader key, typically by calling a
// remote service. Timeouts are the fetcher's responsibility.
type Fetch[T any] func(ctx context.Context) (T, error)

// EntityLoader serves single-entity lookups through the TTL cache.
// The zero number of package-level instances is deliberate: loaders are
// constructed once at startup and injected into whatever needs them.
type EntityLoader[T any] struct {
	cache     *cache.Store
	ttl       time.Duration
	logger    *slog.Logger
	sf        *singleflight.Group
	onRefresh func(key string, err error)
}

// EntityOption customizes an EntityLoader.
type EntityOption[T any] func(*EntityLoader[T])

// WithSingleFlight collapses concurrent foreground fetches for the same
// key into one upstream call. This is a deliberate behavioral change
// from the mobile client, which allows duplicate in-flight fetches;
// leave it off to match that behavior exactly.
func WithSingleFlight[T any]() EntityOption[T] {
	return func(l *EntityLoader[T]) {
		l.sf = &singleflight.Group{}
	}
}

// WithRefreshObserver registers a callback invoked after every
// detached background refresh completes, with the key and the error,
// if any. Used by tests to synchronize with the refresh task.
func WithRefreshObserver[T any](fn func(key string, err error)) EntityOption[T] {
	return func(l *EntityLoader[T]) {
		l.onRefresh = fn
	}
}

// WithEntityLogger sets the loader's logger.
func WithEntityLogger[T any](logger *slog.Logger) EntityOption[T] {
	return func(l *EntityLoader[T]) {
		l.logger = logger
	}
}

// NewEntityLoader creates a loader over the given cache store. ttl
// applies to every entry the loader writes.
func NewEntityLoader[T any](c *cache.Store, ttl time.Duration, opts ...EntityOption[T]) *EntityLoader[T] {
	l := &EntityLoader[T]{
		cache:  c,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get resolves key into a DataState:
//
//   - fresh hit: Success(data, stale=false), no fetch.
//   - stale hit: Refreshing(data) immediately; a detached background
//     fetch stores its result on success and only logs on failure. The
//     caller that received the stale value never sees that error.
//   - miss: the fetch runs in the foreground. Success stores and
//     returns Success(data, false); failure returns Errored with no
//     fallback, since no cached value exists.
func (l *EntityLoader[T]) Get(ctx context.Context, key string, fetch Fetch[T]) DataState[T] {
	if meta, ok := l.cache.GetWithMetadata(ctx, key); ok {
		var data T
		if err := json.Unmarshal(meta.Data, &data); err != nil {
			// Undecodable entry falls through to the miss path.
			l.logger.Warn("cached value does not decode, treating as miss", "key", key, "error", err)
		} else {
			if !meta.IsStale {
				return Success(data, false)
			}

			l.refreshInBackground(ctx, key, fetch)
			return Refreshing(data)
		}
	}

	data, err := l.fetchForeground(ctx, key, fetch)
	if err != nil {
		return Errored[T](err)
	}

	if err := cache.Set(ctx, l.cache, key, data, l.ttl); err != nil {
		l.logger.Warn("cache write failed after fetch", "key", key, "error", err)
	}
	return Success(data, false)
}

// Refresh fetches in the foreground regardless of cache freshness, for
// explicit user-driven refreshes. On success the entry is overwritten
// and Success(data, false) returned. On failure, any cached value (even
// a stale one) rides along in the error state so the caller can keep
// showing it.
func (l *EntityLoader[T]) Refresh(ctx context.Context, key string, fetch Fetch[T]) DataState[T] {
	data, err := l.fetchForeground(ctx, key, fetch)
	if err != nil {
		if cached, ok := cache.Get[T](ctx, l.cache, key); ok {
			return ErroredWithCache(err, cached)
		}
		return Errored[T](err)
	}

	if err := cache.Set(ctx, l.cache, key, data, l.ttl); err != nil {
		l.logger.Warn("cache write failed after refresh", "key", key, "error", err)
	}
	return Success(data, false)
}

// GetCached is a cache-only read; it never triggers a fetch.
func (l *EntityLoader[T]) GetCached(ctx context.Context, key string) (T, bool) {
	return cache.Get[T](ctx, l.cache, key)
}

// Invalidate deletes the entry for key. Callers use this after a
// mutation makes the cached value wrong.
func (l *EntityLoader[T]) Invalidate(ctx context.Context, key string) error {
	return l.cache.Remove(ctx, key)
}

// CacheAge reports how long ago the entry for key was written, or
// false when no entry exists.
func (l *EntityLoader[T]) CacheAge(ctx context.Context, key string) (time.Duration, bool) {
	meta, ok := l.cache.GetWithMetadata(ctx, key)
	if !ok {
		return 0, false
	}
	return meta.Age, true
}

func (l *EntityLoader[T]) fetchForeground(ctx context.Context, key string, fetch Fetch[T]) (T, error) {
	if l.sf == nil {
		return fetch(ctx)
	}

	v, err, _ := l.sf.Do(key, func() (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// refreshInBackground launches the detached refresh for a stale entry.
// It runs on a context stripped of the caller's cancellation so an
// unmounted consumer cannot abort the eventual cache write.
func (l *EntityLoader[T]) refreshInBackground(ctx context.Context, key string, fetch Fetch[T]) {
	bg := context.WithoutCancel(ctx)

	go func() {
		data, err := fetch(bg)
		if err == nil {
			err = cache.Set(bg, l.cache, key, data, l.ttl)
		}
		if err != nil {
			l.logger.Warn("background refresh failed", "key", key, "error", err)
		} else {
			l.logger.Debug("background refresh completed", "key", key)
		}
		if l.onRefresh != nil {
			l.onRefresh(key, err)
		}
	}()
}
