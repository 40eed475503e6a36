package knowledge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqnotes/seqnotes-sync/internal/cache"
	"github.com/seqnotes/seqnotes-sync/internal/config"
	"github.com/seqnotes/seqnotes-sync/internal/domain"
	"github.com/seqnotes/seqnotes-sync/internal/outbox"
	"github.com/seqnotes/seqnotes-sync/internal/store"
)

func newTestService(t *testing.T) (*Service, *cache.Store, *outbox.Queue) {
	t.Helper()
	kv := store.NewMemoryKV()
	c := cache.NewStore(kv, "kb")
	q := outbox.NewQueue(kv, "outbox")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.CacheConfig{
		EntityTTL: 24 * time.Hour,
		ListTTL:   5 * time.Minute,
	}
	return NewService(c, cfg, q, logger), c, q
}

func TestGeneKey_Normalization(t *testing.T) {
	assert.Equal(t, GeneKey("dnaA", "Escherichia coli"), GeneKey(" DNAA ", "escherichia COLI"))
	assert.Equal(t, "genes:dnaa:escherichia coli", GeneKey("DnaA", "Escherichia coli"))
}

func TestService_GetGeneMissFetches(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	state := s.GetGene(ctx, "dnaA", "Escherichia coli", func(ctx context.Context) (domain.Gene, error) {
		return domain.Gene{Symbol: "dnaA", Organism: "Escherichia coli", Name: "Chromosomal replication initiator"}, nil
	})

	require.True(t, state.IsSuccess())
	assert.Equal(t, "dnaA", state.Data.Symbol)

	// A differently-typed identity hits the same entry.
	cached, ok := s.GetCachedGene(ctx, " DNAA ", "escherichia COLI")
	require.True(t, ok)
	assert.Equal(t, "Chromosomal replication initiator", cached.Name)
}

func TestService_InvalidateGene(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	s.GetGene(ctx, "dnaA", "E. coli", func(ctx context.Context) (domain.Gene, error) {
		return domain.Gene{Symbol: "dnaA", Organism: "E. coli"}, nil
	})

	require.NoError(t, s.InvalidateGene(ctx, "dnaA", "E. coli"))
	_, ok := s.GetCachedGene(ctx, "dnaA", "E. coli")
	assert.False(t, ok)
}

func TestService_InvalidateAfterMutation(t *testing.T) {
	ctx := context.Background()
	s, c, _ := newTestService(t)

	id := uuid.New()
	require.NoError(t, cache.Set(ctx, c, EntityKey(CollectionResearchers, id.String()),
		domain.Researcher{ID: id, Name: "Carter"}, time.Hour))
	require.NoError(t, cache.Set(ctx, c, "researchers:list",
		[]domain.Researcher{{ID: id, Name: "Carter"}}, 5*time.Minute))

	require.NoError(t, s.InvalidateAfterMutation(ctx, CollectionResearchers, id.String()))

	_, ok := cache.Get[domain.Researcher](ctx, c, EntityKey(CollectionResearchers, id.String()))
	assert.False(t, ok)
	_, ok = s.Researchers().GetCached(ctx)
	assert.False(t, ok)
}

func TestService_InvalidateUnknownCollection(t *testing.T) {
	s, _, _ := newTestService(t)

	err := s.InvalidateAfterMutation(context.Background(), "projects", "p1")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestService_QueueFailedMutation(t *testing.T) {
	ctx := context.Background()
	s, _, q := newTestService(t)

	payload, err := json.Marshal(domain.Tag{ID: uuid.New(), Name: "replication"})
	require.NoError(t, err)

	m, err := s.QueueFailedMutation(ctx, outbox.MutationCreate, CollectionTags, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, CollectionTags, pending[0].Entity)
	assert.Equal(t, 0, pending[0].Retries)
}

func TestService_ListLoadersAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)

	s.Tags().Get(ctx, func(ctx context.Context) ([]domain.Tag, error) {
		return []domain.Tag{{ID: uuid.New(), Name: "replication"}}, nil
	})

	_, ok := s.Researchers().GetCached(ctx)
	assert.False(t, ok)

	tags, ok := s.Tags().GetCached(ctx)
	require.True(t, ok)
	assert.Len(t, tags, 1)
}
