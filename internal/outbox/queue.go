package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seqnotes/seqnotes-sync/internal/store"
)

// pendingKey is the single KV key the whole queue persists under.
const pendingKey = "pending"

// Queue is the durable offline mutation queue. The entire pending list
// lives under one namespaced KV key, so every operation is a
// read-modify-write of the full list; a mutex serializes those cycles,
// which keeps concurrent enqueues and dequeues from losing each other's
// writes while preserving FIFO order.
type Queue struct {
	mu        sync.Mutex
	kv        store.KV
	namespace string
	now       func() time.Time
	logger    *slog.Logger
}

// QueueOption customizes a Queue.
type QueueOption func(*Queue)

// WithQueueClock replaces the time source. Test hook.
func WithQueueClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		q.now = now
	}
}

// WithQueueLogger sets the queue's logger.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger
	}
}

// NewQueue creates a queue persisting under the given namespace in kv.
func NewQueue(kv store.KV, namespace string, opts ...QueueOption) *Queue {
	q := &Queue{
		kv:        kv,
		namespace: namespace,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.logger = q.logger.With("component", "outbox")
	return q
}

// Enqueue validates the draft, assigns it an id, timestamp, and a zero
// retry count, and appends it to the end of the pending list. The
// assigned id is "<unix-ms>_<random suffix>" so entries sort by arrival
// even when inspected raw. Persistence failures propagate to the caller.
func (q *Queue) Enqueue(ctx context.Context, draft Draft) (Mutation, error) {
	if err := draft.Validate(); err != nil {
		return Mutation{}, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return Mutation{}, err
	}

	now := q.now().UTC()
	m := Mutation{
		ID:        fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8]),
		Type:      draft.Type,
		Entity:    draft.Entity,
		Payload:   draft.Payload,
		Timestamp: now,
		Retries:   0,
	}

	pending = append(pending, m)
	if err := q.save(ctx, pending); err != nil {
		return Mutation{}, err
	}

	q.logger.Debug("mutation enqueued",
		"mutation_id", m.ID,
		"mutation_type", m.Type,
		"entity", m.Entity,
		"pending", len(pending))
	return m, nil
}

// Pending returns all queued mutations in insertion (FIFO) order.
func (q *Queue) Pending(ctx context.Context) ([]Mutation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// Dequeue removes the mutation with the given id after its remote
// replay succeeded. Removing an unknown id is a no-op.
func (q *Queue) Dequeue(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return err
	}

	kept := pending[:0]
	removed := false
	for _, m := range pending {
		if m.ID == id {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	if !removed {
		return nil
	}

	if err := q.save(ctx, kept); err != nil {
		return err
	}
	q.logger.Debug("mutation dequeued", "mutation_id", id, "pending", len(kept))
	return nil
}

// MarkRetry increments the retry count of the mutation with the given
// id by exactly one, leaving every other field and every other entry
// unchanged. Marking an unknown id is a no-op.
func (q *Queue) MarkRetry(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range pending {
		if pending[i].ID == id {
			pending[i].Retries++
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	return q.save(ctx, pending)
}

// Clear removes every queued mutation.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.kv.Remove(ctx, q.storageKey())
}

// Size reports the number of queued mutations.
func (q *Queue) Size(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

func (q *Queue) storageKey() string {
	return q.namespace + ":" + pendingKey
}

// load reads the full pending list. An absent key is an empty queue;
// any other storage failure propagates.
func (q *Queue) load(ctx context.Context) ([]Mutation, error) {
	raw, err := q.kv.Get(ctx, q.storageKey())
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, store.NewStoreError(q.storageKey(), "get", "failed to load pending mutations", err)
	}

	var pending []Mutation
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, store.NewStoreError(q.storageKey(), "get", "corrupt pending mutation list", err)
	}
	return pending, nil
}

func (q *Queue) save(ctx context.Context, pending []Mutation) error {
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to encode pending mutations: %w", err)
	}
	if err := q.kv.Set(ctx, q.storageKey(), raw); err != nil {
		return store.NewStoreError(q.storageKey(), "set", "failed to persist pending mutations", err)
	}
	return nil
}
