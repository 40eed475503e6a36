package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all KV implementations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable is returned when the backing storage cannot be
	// reached at all (connection loss, closed pool). Callers on the cache
	// read path treat this as a miss rather than surfacing it.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotImplemented is returned when a store method is not yet implemented.
	// This is particularly useful for stub implementations.
	ErrNotImplemented = errors.New("method not implemented")
)

// IsNotFound checks whether the error indicates a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Key       string // The key involved in the failed operation
	Operation string // The operation that failed (e.g., "get", "set")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %q failed: %s: %v", e.Operation, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %q failed: %s", e.Operation, e.Key, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given key, operation, message, and wrapped error.
func NewStoreError(key, operation, message string, err error) *StoreError {
	return &StoreError{
		Key:       key,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
