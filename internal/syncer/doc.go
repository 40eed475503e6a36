// Package syncer drains the offline mutation queue. It replays pending
// mutations in FIFO order through a caller-supplied Applier, dequeues
// confirmed successes, and marks retries on failures. The queue stays
// pure bookkeeping; all network judgement lives in the Applier.
package syncer
