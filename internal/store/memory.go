package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryKV is an in-memory KV implementation. It backs unit tests and
// serves as the in-process store when no durable backend is configured,
// playing the role device-local storage plays for the mobile client.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte

	// failNext, when set, causes the next operation to return this error.
	// Used by tests to exercise fail-open cache behavior.
	failNext error
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string][]byte),
	}
}

// FailNext makes the next store operation return err. Test hook.
func (m *MemoryKV) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MemoryKV) takeFailure() error {
	if m.failNext == nil {
		return nil
	}
	err := m.failNext
	m.failNext = nil
	return err
}

// Get retrieves the raw value stored under key.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key, replacing any prior value.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Remove deletes the value stored under key. No-op if absent.
func (m *MemoryKV) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	delete(m.data, key)
	return nil
}

// Keys returns all keys with the given prefix.
func (m *MemoryKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Clear removes every key with the given prefix.
func (m *MemoryKV) Clear(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

// Len reports the number of stored keys. Test helper.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
