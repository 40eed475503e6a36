package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqnotes/seqnotes-sync/internal/outbox"
	"github.com/seqnotes/seqnotes-sync/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSyncer(t *testing.T, applier Applier) (*Syncer, *outbox.Queue) {
	t.Helper()
	q := outbox.NewQueue(store.NewMemoryKV(), "outbox")
	s := New(q, applier, Config{Interval: time.Hour, MaxRetries: 3}, testLogger())
	return s, q
}

func enqueue(t *testing.T, q *outbox.Queue, entity string) outbox.Mutation {
	t.Helper()
	m, err := q.Enqueue(context.Background(), outbox.Draft{
		Type:    outbox.MutationCreate,
		Entity:  entity,
		Payload: json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	return m
}

// recordingApplier records the order mutations are applied in and can
// fail selected entities.
type recordingApplier struct {
	mu      sync.Mutex
	applied []string
	failFor map[string]error
}

func (a *recordingApplier) Apply(ctx context.Context, m outbox.Mutation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err, ok := a.failFor[m.Entity]; ok {
		return err
	}
	a.applied = append(a.applied, m.Entity)
	return nil
}

func TestDrain_ReplaysAllAndEmptiesQueue(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{}
	s, q := newTestSyncer(t, applier)

	enqueue(t, q, "notes")
	enqueue(t, q, "tags")
	enqueue(t, q, "articles")

	require.NoError(t, s.Drain(ctx))

	assert.Equal(t, []string{"notes", "tags", "articles"}, applier.applied)

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDrain_FailureMarksRetryAndStopsPass(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{failFor: map[string]error{"tags": errors.New("409 conflict")}}
	s, q := newTestSyncer(t, applier)

	enqueue(t, q, "notes")
	failing := enqueue(t, q, "tags")
	enqueue(t, q, "articles")

	require.NoError(t, s.Drain(ctx))

	// First succeeded, second failed, third never attempted.
	assert.Equal(t, []string{"notes"}, applier.applied)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, failing.ID, pending[0].ID)
	assert.Equal(t, 1, pending[0].Retries)
	assert.Equal(t, 0, pending[1].Retries)
}

func TestDrain_SkipsMutationsAtRetryLimit(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{}
	s, q := newTestSyncer(t, applier)

	exhausted := enqueue(t, q, "notes")
	for i := 0; i < 3; i++ {
		require.NoError(t, q.MarkRetry(ctx, exhausted.ID))
	}
	enqueue(t, q, "tags")

	require.NoError(t, s.Drain(ctx))

	// The exhausted mutation is left alone; the rest drain.
	assert.Equal(t, []string{"tags"}, applier.applied)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, exhausted.ID, pending[0].ID)
}

func TestRetryAll_IgnoresRetryLimit(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{}
	s, q := newTestSyncer(t, applier)

	exhausted := enqueue(t, q, "notes")
	for i := 0; i < 3; i++ {
		require.NoError(t, q.MarkRetry(ctx, exhausted.ID))
	}

	require.NoError(t, s.RetryAll(ctx))

	assert.Equal(t, []string{"notes"}, applier.applied)
	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestDismiss_DropsWithoutReplay(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{}
	s, q := newTestSyncer(t, applier)

	m := enqueue(t, q, "notes")
	require.NoError(t, s.Dismiss(ctx, m.ID))

	require.NoError(t, s.Drain(ctx))
	assert.Empty(t, applier.applied)
}

func TestStatus_CountsPendingAndFailed(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{}
	s, q := newTestSyncer(t, applier)

	exhausted := enqueue(t, q, "notes")
	for i := 0; i < 3; i++ {
		require.NoError(t, q.MarkRetry(ctx, exhausted.ID))
	}
	enqueue(t, q, "tags")

	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Pending)
	assert.Equal(t, 1, status.Failed)
	assert.True(t, status.Online)
}

func TestSetOnline_OfflineBlocksLoopDrains(t *testing.T) {
	ctx := context.Background()
	applier := &recordingApplier{}
	s, q := newTestSyncer(t, applier)

	enqueue(t, q, "notes")

	s.SetOnline(false)
	s.Start()
	defer s.Stop()

	s.Kick()
	time.Sleep(100 * time.Millisecond)

	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)
	assert.False(t, status.Online)

	// Coming back online kicks an immediate drain.
	s.SetOnline(true)
	require.Eventually(t, func() bool {
		size, err := q.Size(ctx)
		return err == nil && size == 0
	}, 2*time.Second, 20*time.Millisecond)
}
