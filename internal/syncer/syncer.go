package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/seqnotes/seqnotes-sync/internal/outbox"
)

// Applier replays one queued mutation against the remote backend.
// Implementations own transport, timeouts, and error classification.
type Applier interface {
	Apply(ctx context.Context, m outbox.Mutation) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, m outbox.Mutation) error

// Apply calls f.
func (f ApplierFunc) Apply(ctx context.Context, m outbox.Mutation) error {
	return f(ctx, m)
}

// Config holds the syncer's tunables.
type Config struct {
	// Interval between automatic drain passes.
	Interval time.Duration

	// MaxRetries is the retry count at which automatic drains stop
	// attempting a mutation and report it as failed instead. Manual
	// retries ignore the limit.
	MaxRetries int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Interval:   30 * time.Second,
		MaxRetries: 5,
	}
}

// Status is the snapshot the sync indicator renders.
type Status struct {
	Pending     int       `json:"pending"`
	Failed      int       `json:"failed"`
	Online      bool      `json:"online"`
	LastDrainAt time.Time `json:"last_drain_at"`
}

// Syncer owns the drain loop over an outbox queue.
type Syncer struct {
	queue   *outbox.Queue
	applier Applier
	cfg     Config
	logger  *slog.Logger

	mu          sync.Mutex
	online      bool
	lastDrainAt time.Time

	kick   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Syncer draining queue through applier.
func New(queue *outbox.Queue, applier Applier, cfg Config, logger *slog.Logger) *Syncer {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	return &Syncer{
		queue:   queue,
		applier: applier,
		cfg:     cfg,
		logger:  logger.With("component", "syncer"),
		online:  true,
		kick:    make(chan struct{}, 1),
	}
}

// Start launches the periodic drain loop.
func (s *Syncer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop shuts the drain loop down and waits for an in-flight pass to finish.
func (s *Syncer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// SetOnline records the connectivity signal. Coming back online kicks
// an immediate drain instead of waiting out the interval.
func (s *Syncer) SetOnline(online bool) {
	s.mu.Lock()
	wasOnline := s.online
	s.online = online
	s.mu.Unlock()

	if online && !wasOnline {
		s.Kick()
	}
}

// Kick requests a drain pass outside the regular interval. Non-blocking;
// at most one kick is buffered.
func (s *Syncer) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Drain replays pending mutations in FIFO order. A successful replay
// dequeues the mutation. A failed replay marks one retry and ends the
// pass so later mutations cannot overtake the failed one. Mutations
// already at the retry limit are skipped and counted as failed.
func (s *Syncer) Drain(ctx context.Context) error {
	return s.drain(ctx, false)
}

// RetryAll is the manual "retry now" action: it drains ignoring the
// retry limit, so mutations the automatic loop has given up on get one
// more attempt.
func (s *Syncer) RetryAll(ctx context.Context) error {
	return s.drain(ctx, true)
}

// Dismiss drops a pending mutation without replaying it.
func (s *Syncer) Dismiss(ctx context.Context, id string) error {
	return s.queue.Dequeue(ctx, id)
}

// Status reports the queue and connectivity snapshot.
func (s *Syncer) Status(ctx context.Context) (Status, error) {
	pending, err := s.queue.Pending(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to read pending mutations: %w", err)
	}

	failed := 0
	for _, m := range pending {
		if m.Retries >= s.cfg.MaxRetries {
			failed++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Pending:     len(pending),
		Failed:      failed,
		Online:      s.online,
		LastDrainAt: s.lastDrainAt,
	}, nil
}

func (s *Syncer) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.kick:
		}

		s.mu.Lock()
		online := s.online
		s.mu.Unlock()
		if !online {
			continue
		}

		if err := s.Drain(ctx); err != nil {
			s.logger.Error("drain pass failed", "error", err)
		}
	}
}

func (s *Syncer) drain(ctx context.Context, ignoreRetryLimit bool) error {
	pending, err := s.queue.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending mutations: %w", err)
	}

	defer func() {
		s.mu.Lock()
		s.lastDrainAt = time.Now().UTC()
		s.mu.Unlock()
	}()

	if len(pending) == 0 {
		return nil
	}

	s.logger.Info("draining offline mutations", "pending", len(pending))

	for _, m := range pending {
		if !ignoreRetryLimit && m.Retries >= s.cfg.MaxRetries {
			s.logger.Warn("skipping mutation at retry limit",
				"mutation_id", m.ID,
				"retries", m.Retries)
			continue
		}

		if err := s.applier.Apply(ctx, m); err != nil {
			s.logger.Warn("mutation replay failed",
				"mutation_id", m.ID,
				"mutation_type", m.Type,
				"entity", m.Entity,
				"retries", m.Retries,
				"error", err)
			if markErr := s.queue.MarkRetry(ctx, m.ID); markErr != nil {
				return fmt.Errorf("failed to record retry for %s: %w", m.ID, markErr)
			}
			// Stop the pass: replaying later mutations ahead of a
			// failed earlier one would break the FIFO contract.
			return nil
		}

		if err := s.queue.Dequeue(ctx, m.ID); err != nil {
			return fmt.Errorf("failed to dequeue %s after replay: %w", m.ID, err)
		}
		s.logger.Info("mutation replayed",
			"mutation_id", m.ID,
			"mutation_type", m.Type,
			"entity", m.Entity)
	}

	return nil
}
