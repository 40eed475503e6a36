package sharedcache

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqnotes/seqnotes-sync/internal/config"
)

func testClient() *Client {
	cfg := config.SharedCacheConfig{
		SourceTTLHours: map[string]int{
			"ncbi":     168,
			"uniprot":  168,
			"crossref": 72,
			"pubmed":   72,
		},
		DefaultTTLHours: 24,
	}
	return NewClient(nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_TTLHoursPerSource(t *testing.T) {
	c := testClient()

	assert.Equal(t, 168, c.TTLHours("ncbi"))
	assert.Equal(t, 168, c.TTLHours("UniProt"))
	assert.Equal(t, 72, c.TTLHours("crossref"))
	assert.Equal(t, 72, c.TTLHours("pubmed"))
	assert.Equal(t, 24, c.TTLHours("ensembl"))
}

func TestTruncate_LongRequestID(t *testing.T) {
	long := strings.Repeat("a", 150)
	assert.Len(t, Truncate(long), 100)

	short := "10.1038/nature12373"
	assert.Equal(t, short, Truncate(short))
}

func TestKey_TruncatesBeforeHashing(t *testing.T) {
	long := strings.Repeat("a", 150)
	clipped := strings.Repeat("a", 100)

	// Identifiers that only differ past the limit share a key, which is
	// what the backend stores.
	assert.Equal(t, Key("ncbi", long), Key("ncbi", clipped))
	assert.True(t, strings.HasPrefix(Key("ncbi", long), "ncbi_"))
}
