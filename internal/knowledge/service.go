package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seqnotes/seqnotes-sync/internal/cache"
	"github.com/seqnotes/seqnotes-sync/internal/config"
	"github.com/seqnotes/seqnotes-sync/internal/domain"
	"github.com/seqnotes/seqnotes-sync/internal/loader"
	"github.com/seqnotes/seqnotes-sync/internal/outbox"
)

// Collection names, used both as cache key prefixes and as the entity
// tag on queued mutations.
const (
	CollectionResearchers = "researchers"
	CollectionArticles    = "articles"
	CollectionConferences = "conferences"
	CollectionTags        = "tags"
)

// ErrUnknownCollection is returned when an invalidation names a
// collection the service does not manage.
var ErrUnknownCollection = errors.New("unknown collection")

// Service owns the data orchestration for every knowledge-base domain.
// It is constructed once at startup with its stores injected, so tests
// can build isolated instances over fresh in-memory stores.
type Service struct {
	genes       *loader.EntityLoader[domain.Gene]
	researchers *loader.ListLoader[domain.Researcher]
	articles    *loader.ListLoader[domain.Article]
	conferences *loader.ListLoader[domain.Conference]
	tags        *loader.ListLoader[domain.Tag]

	// invalidators maps a collection name to its two-step entry
	// invalidation, erasing the typed loader difference.
	invalidators map[string]func(ctx context.Context, entityKey string) error

	queue  *outbox.Queue
	logger *slog.Logger
}

// NewService builds the orchestration layer over the given cache store
// and outbox queue. Entity lookups use cfg.EntityTTL; collections use
// cfg.ListTTL.
func NewService(c *cache.Store, cfg config.CacheConfig, queue *outbox.Queue, logger *slog.Logger) *Service {
	s := &Service{
		genes:       loader.NewEntityLoader[domain.Gene](c, cfg.EntityTTL, loader.WithEntityLogger[domain.Gene](logger)),
		researchers: loader.NewListLoader[domain.Researcher](c, CollectionResearchers+":list", cfg.ListTTL),
		articles:    loader.NewListLoader[domain.Article](c, CollectionArticles+":list", cfg.ListTTL),
		conferences: loader.NewListLoader[domain.Conference](c, CollectionConferences+":list", cfg.ListTTL),
		tags:        loader.NewListLoader[domain.Tag](c, CollectionTags+":list", cfg.ListTTL),
		queue:       queue,
		logger:      logger.With("component", "knowledge"),
	}

	s.invalidators = map[string]func(ctx context.Context, entityKey string) error{
		CollectionResearchers: s.researchers.InvalidateEntry,
		CollectionArticles:    s.articles.InvalidateEntry,
		CollectionConferences: s.conferences.InvalidateEntry,
		CollectionTags:        s.tags.InvalidateEntry,
	}
	return s
}

// GeneKey derives the cache key for a gene lookup. Symbol and organism
// are lowercased and trimmed so the same lookup always lands on the
// same entry regardless of how the user typed it.
func GeneKey(symbol, organism string) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return fmt.Sprintf("genes:%s:%s", norm(symbol), norm(organism))
}

// EntityKey derives the cache key for a single collection member.
func EntityKey(collection, id string) string {
	return collection + ":" + id
}

// GetGene resolves a gene lookup through the cache, fetching via fetch
// on a miss and refreshing in the background on a stale hit.
func (s *Service) GetGene(ctx context.Context, symbol, organism string, fetch loader.Fetch[domain.Gene]) loader.DataState[domain.Gene] {
	return s.genes.Get(ctx, GeneKey(symbol, organism), fetch)
}

// RefreshGene forces a foreground re-fetch of a gene lookup. A failed
// fetch keeps any cached value available in the returned error state.
func (s *Service) RefreshGene(ctx context.Context, symbol, organism string, fetch loader.Fetch[domain.Gene]) loader.DataState[domain.Gene] {
	return s.genes.Refresh(ctx, GeneKey(symbol, organism), fetch)
}

// GetCachedGene is a cache-only gene read; it never fetches.
func (s *Service) GetCachedGene(ctx context.Context, symbol, organism string) (domain.Gene, bool) {
	return s.genes.GetCached(ctx, GeneKey(symbol, organism))
}

// InvalidateGene removes a gene lookup entry.
func (s *Service) InvalidateGene(ctx context.Context, symbol, organism string) error {
	return s.genes.Invalidate(ctx, GeneKey(symbol, organism))
}

// GeneCacheAge reports how long ago a gene lookup was cached.
func (s *Service) GeneCacheAge(ctx context.Context, symbol, organism string) (time.Duration, bool) {
	return s.genes.CacheAge(ctx, GeneKey(symbol, organism))
}

// Researchers returns the researcher collection loader.
func (s *Service) Researchers() *loader.ListLoader[domain.Researcher] { return s.researchers }

// Articles returns the article collection loader.
func (s *Service) Articles() *loader.ListLoader[domain.Article] { return s.articles }

// Conferences returns the conference collection loader.
func (s *Service) Conferences() *loader.ListLoader[domain.Conference] { return s.conferences }

// Tags returns the tag collection loader.
func (s *Service) Tags() *loader.ListLoader[domain.Tag] { return s.tags }

// InvalidateAfterMutation performs the two-step invalidation a
// successful mutation requires: the entity's own entry, then the
// owning collection entry.
func (s *Service) InvalidateAfterMutation(ctx context.Context, collection, entityID string) error {
	invalidate, ok := s.invalidators[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return invalidate(ctx, EntityKey(collection, entityID))
}

// QueueFailedMutation records a write that failed to reach the remote
// backend so the syncer can replay it later. The queue assigns the id
// and timestamp; the outcome is reported back for UI bookkeeping.
func (s *Service) QueueFailedMutation(ctx context.Context, typ outbox.MutationType, collection string, payload json.RawMessage) (outbox.Mutation, error) {
	m, err := s.queue.Enqueue(ctx, outbox.Draft{
		Type:    typ,
		Entity:  collection,
		Payload: payload,
	})
	if err != nil {
		return outbox.Mutation{}, fmt.Errorf("failed to queue offline mutation: %w", err)
	}

	s.logger.Info("queued offline mutation",
		"mutation_id", m.ID,
		"mutation_type", m.Type,
		"collection", collection)
	return m, nil
}
