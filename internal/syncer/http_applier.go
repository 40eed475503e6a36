package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seqnotes/seqnotes-sync/internal/outbox"
)

// HTTPApplier replays mutations against a remote backend as JSON
// requests: create posts to /<entity>, update and delete address
// /<entity> with the mutation payload carrying the target identity.
type HTTPApplier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPApplier creates an applier targeting baseURL. The client
// enforces its own request timeout; the drain loop imposes none.
func NewHTTPApplier(baseURL string) *HTTPApplier {
	return &HTTPApplier{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Apply sends one mutation to the backend. Any non-2xx response is an
// error, which leaves the mutation queued for another attempt.
func (a *HTTPApplier) Apply(ctx context.Context, m outbox.Mutation) error {
	method := http.MethodPost
	switch m.Type {
	case outbox.MutationUpdate:
		method = http.MethodPut
	case outbox.MutationDelete:
		method = http.MethodDelete
	}

	body, err := json.Marshal(struct {
		ID      string          `json:"id"`
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{
		ID:      m.ID,
		Type:    string(m.Type),
		Payload: m.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mutation %s: %w", m.ID, err)
	}

	url := a.baseURL + "/" + m.Entity
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", m.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("replay of %s failed: %w", m.ID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("replay of %s rejected: %s", m.ID, resp.Status)
	}
	return nil
}
