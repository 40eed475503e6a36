package domain

import (
	"errors"
	"strings"
	"time"
)

// Gene-specific validation errors.
var (
	// ErrGeneSymbolEmpty is returned when a gene's symbol is empty.
	ErrGeneSymbolEmpty = errors.New("gene symbol cannot be empty")

	// ErrGeneOrganismEmpty is returned when a gene's organism is empty.
	ErrGeneOrganismEmpty = errors.New("gene organism cannot be empty")
)

// Gene is the result of a remote gene lookup (symbol plus organism).
// Unlike the other entities it has no local identity of its own: the
// (symbol, organism) pair is the key, which is also how its cache
// entries are addressed.
type Gene struct {
	Symbol      string    `json:"symbol"`
	Organism    string    `json:"organism"`
	Name        string    `json:"name,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Aliases     []string  `json:"aliases,omitempty"`
	Source      string    `json:"source,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at,omitempty"`
}

// Validate checks if the Gene has valid data.
func (g *Gene) Validate() error {
	if strings.TrimSpace(g.Symbol) == "" {
		return ErrGeneSymbolEmpty
	}
	if strings.TrimSpace(g.Organism) == "" {
		return ErrGeneOrganismEmpty
	}
	return nil
}
