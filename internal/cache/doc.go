// Package cache implements a TTL cache on top of a store.KV. Every
// entry carries its write time and time-to-live, so reads can report
// staleness without deleting anything: stale entries stay readable
// until overwritten or invalidated. The central operation is
// GetStaleWhileRevalidate, which serves an expired entry immediately
// and refreshes it in a detached background task.
package cache
