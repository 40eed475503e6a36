// Package keyhash derives the compact keys used to address the shared
// server-side API cache. Free-text request identifiers (gene symbol plus
// organism, DOIs) are too long and too variable to serve as primary keys,
// so they are normalized and folded into a short hash.
package keyhash

import (
	"fmt"
	"strings"
)

// Hash derives the shared-cache key for a lookup: both inputs are
// lowercased and trimmed, concatenated as "<source>:<id>", and folded
// with a 32-bit multiply-add hash; the result is rendered as
// "<source>_<hex>".
//
// The derivation is pure and deterministic: equal source and
// (normalized) requestID always produce the same key. The converse is
// only probabilistic — the 32-bit space admits collisions, and
// colliding requestIDs silently share a cache slot. That is an accepted
// property of the deployed shared table; widening the hash would re-key
// every existing entry.
func Hash(source, requestID string) string {
	src := normalize(source)
	id := normalize(requestID)

	var h uint32
	for _, c := range []byte(src + ":" + id) {
		h = h*31 + uint32(c)
	}

	return fmt.Sprintf("%s_%x", src, h)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
