// Package outbox implements the durable FIFO queue of write operations
// that failed to reach the remote backend. The queue is pure
// bookkeeping: it never performs network calls itself. A driver (the
// syncer) reads pending mutations in order, attempts them, and then
// dequeues on success or marks a retry on failure.
package outbox
