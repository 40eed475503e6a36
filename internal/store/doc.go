// Package store defines the persistence contracts for the sync core.
// The central abstraction is KV, a namespaced durable key-value store;
// every higher layer (TTL cache, offline outbox) is built on top of it
// so that business logic stays independent of the storage backend.
package store
