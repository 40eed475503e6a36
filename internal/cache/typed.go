package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Typed accessors over Store. The store itself moves json.RawMessage so
// one instance can hold heterogeneous entries; these helpers give call
// sites a typed surface without their own decode boilerplate.

// Get decodes the cached value for key into T.
func Get[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var zero T
	raw, ok := s.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("cached value does not decode, treating as miss", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

// Set encodes value and stores it under key.
func Set[T any](ctx context.Context, s *Store, key string, value T, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}

// Swr runs the stale-while-revalidate read with a typed fetcher,
// returning the value and whether it was stale when served.
func Swr[T any](
	ctx context.Context,
	s *Store,
	key string,
	ttl time.Duration,
	fetch func(ctx context.Context) (T, error),
) (T, bool, error) {
	var zero T

	res, err := s.GetStaleWhileRevalidate(ctx, key, ttl, func(ctx context.Context) (json.RawMessage, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, false, err
	}

	var v T
	if err := json.Unmarshal(res.Data, &v); err != nil {
		return zero, false, fmt.Errorf("failed to decode cached value for %q: %w", key, err)
	}
	return v, res.IsStale, nil
}
