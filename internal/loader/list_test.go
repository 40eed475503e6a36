package loader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqnotes/seqnotes-sync/internal/cache"
	"github.com/seqnotes/seqnotes-sync/internal/store"
)

type researcher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestListLoader_MissFetchesCollection(t *testing.T) {
	ctx := context.Background()
	c := cache.NewStore(store.NewMemoryKV(), "kb")
	l := NewListLoader[researcher](c, "researchers:list", 5*time.Minute)

	state := l.Get(ctx, func(ctx context.Context) ([]researcher, error) {
		return []researcher{{ID: "r1", Name: "Carter"}, {ID: "r2", Name: "Okafor"}}, nil
	})

	require.True(t, state.IsSuccess())
	require.Len(t, state.Data, 2)
	assert.Equal(t, "Carter", state.Data[0].Name)

	cached, ok := l.GetCached(ctx)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestListLoader_FreshHitSkipsFetch(t *testing.T) {
	ctx := context.Background()
	c := cache.NewStore(store.NewMemoryKV(), "kb")
	l := NewListLoader[researcher](c, "researchers:list", 5*time.Minute)

	require.NoError(t, cache.Set(ctx, c, "researchers:list", []researcher{{ID: "r1"}}, 5*time.Minute))

	fetched := false
	state := l.Get(ctx, func(ctx context.Context) ([]researcher, error) {
		fetched = true
		return nil, nil
	})

	require.True(t, state.IsSuccess())
	assert.False(t, fetched)
}

func TestListLoader_InvalidateEntryIsTwoStep(t *testing.T) {
	ctx := context.Background()
	c := cache.NewStore(store.NewMemoryKV(), "kb")
	l := NewListLoader[researcher](c, "researchers:list", 5*time.Minute)

	require.NoError(t, cache.Set(ctx, c, "researchers:r1", researcher{ID: "r1"}, 5*time.Minute))
	require.NoError(t, cache.Set(ctx, c, "researchers:list", []researcher{{ID: "r1"}}, 5*time.Minute))

	require.NoError(t, l.InvalidateEntry(ctx, "researchers:r1"))

	_, ok := cache.Get[researcher](ctx, c, "researchers:r1")
	assert.False(t, ok, "entity entry should be removed")
	_, ok = l.GetCached(ctx)
	assert.False(t, ok, "list entry should be removed")
}

func TestListLoader_CacheAge(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := cache.NewStore(store.NewMemoryKV(), "kb", cache.WithClock(clock.now))
	l := NewListLoader[researcher](c, "tags:list", 5*time.Minute)

	require.NoError(t, cache.Set(ctx, c, "tags:list", []researcher{}, 5*time.Minute))
	clock.advance(time.Minute)

	age, ok := l.CacheAge(ctx)
	require.True(t, ok)
	assert.Equal(t, time.Minute, age)
}
