package cache

import "encoding/json"

// entry is the persisted envelope around every cached value.
// CachedAt and TTLMs are kept in unix milliseconds so entries stay
// wire-compatible with those written by the mobile client.
type entry struct {
	Value    json.RawMessage `json:"value"`
	CachedAt int64           `json:"cachedAt"`
	TTLMs    int64           `json:"ttlMs"`
}
