package store

import "context"

// KV is the interface for durable key-value persistence.
// Version: 1.0
type KV interface {
	// Get retrieves the raw value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, fully replacing any prior value
	// (last-write-wins).
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the value stored under key.
	// Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys returns all keys that start with prefix, in unspecified order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Clear removes every key that starts with prefix.
	Clear(ctx context.Context, prefix string) error
}
