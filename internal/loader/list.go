package loader

import (
	"context"
	"log/slog"
	"time"

	"github.com/seqnotes/seqnotes-sync/internal/cache"
)

// ListLoader serves one collection ("all researchers", "all tags")
// under a fixed cache key. It reuses the entity loader's read paths and
// adds the two-step invalidation a mutation requires: the changed
// entity's own entry goes first, then the list that contains it.
type ListLoader[T any] struct {
	inner   *EntityLoader[[]T]
	listKey string
	logger  *slog.Logger
}

// NewListLoader creates a loader for the collection stored under
// listKey in the given cache store.
func NewListLoader[T any](c *cache.Store, listKey string, ttl time.Duration, opts ...EntityOption[[]T]) *ListLoader[T] {
	return &ListLoader[T]{
		inner:   NewEntityLoader(c, ttl, opts...),
		listKey: listKey,
		logger:  slog.Default(),
	}
}

// Get resolves the collection with the same semantics as
// EntityLoader.Get: fresh hit, stale hit with background refresh, or
// foreground fetch on miss.
func (l *ListLoader[T]) Get(ctx context.Context, fetch Fetch[[]T]) DataState[[]T] {
	return l.inner.Get(ctx, l.listKey, fetch)
}

// Refresh fetches the collection in the foreground regardless of
// freshness; see EntityLoader.Refresh.
func (l *ListLoader[T]) Refresh(ctx context.Context, fetch Fetch[[]T]) DataState[[]T] {
	return l.inner.Refresh(ctx, l.listKey, fetch)
}

// GetCached is a cache-only read of the collection.
func (l *ListLoader[T]) GetCached(ctx context.Context) ([]T, bool) {
	return l.inner.GetCached(ctx, l.listKey)
}

// Invalidate deletes the collection entry.
func (l *ListLoader[T]) Invalidate(ctx context.Context) error {
	return l.inner.Invalidate(ctx, l.listKey)
}

// InvalidateEntry performs the two-step invalidation after a mutation:
// the mutated entity's own cache entry is removed first, then the
// owning list entry, so no read can see a fresh list pointing at a
// stale entity. The first failure aborts the sequence and is returned.
func (l *ListLoader[T]) InvalidateEntry(ctx context.Context, entityKey string) error {
	if err := l.inner.cache.Remove(ctx, entityKey); err != nil {
		return err
	}
	return l.inner.Invalidate(ctx, l.listKey)
}

// CacheAge reports the age of the collection entry.
func (l *ListLoader[T]) CacheAge(ctx context.Context) (time.Duration, bool) {
	return l.inner.CacheAge(ctx, l.listKey)
}
