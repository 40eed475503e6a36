package outbox

import (
	"encoding/json"
	"errors"
	"time"
)

// MutationType identifies the kind of write a queued mutation carries.
type MutationType string

// Possible mutation types.
const (
	MutationCreate MutationType = "create"
	MutationUpdate MutationType = "update"
	MutationDelete MutationType = "delete"
)

// Mutation-specific validation errors.
var (
	// ErrMutationTypeInvalid is returned when a draft's type is not
	// create, update, or delete.
	ErrMutationTypeInvalid = errors.New("mutation type must be create, update, or delete")

	// ErrMutationEntityEmpty is returned when a draft names no entity.
	ErrMutationEntityEmpty = errors.New("mutation entity cannot be empty")
)

// Draft is what a caller hands to Enqueue: the write that failed. The
// queue assigns the identity fields itself; callers never pick IDs or
// timestamps.
type Draft struct {
	Type    MutationType    `json:"type"`
	Entity  string          `json:"entity"`
	Payload json.RawMessage `json:"payload"`
}

// Validate checks the draft before it is accepted into the queue.
func (d Draft) Validate() error {
	switch d.Type {
	case MutationCreate, MutationUpdate, MutationDelete:
	default:
		return ErrMutationTypeInvalid
	}
	if d.Entity == "" {
		return ErrMutationEntityEmpty
	}
	return nil
}

// Mutation is a queued write operation. Retries only ever grows, via
// MarkRetry; everything else is immutable once enqueued.
type Mutation struct {
	ID        string          `json:"id"`
	Type      MutationType    `json:"type"`
	Entity    string          `json:"entity"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Retries   int             `json:"retries"`
}
