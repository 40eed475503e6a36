package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors shared by the collection entities.
var (
	// ErrIDEmpty is returned when an entity ID is empty or nil.
	ErrIDEmpty = errors.New("entity ID cannot be empty")

	// ErrNameEmpty is returned when an entity's display name is empty.
	ErrNameEmpty = errors.New("entity name cannot be empty")

	// ErrTitleEmpty is returned when an article's title is empty.
	ErrTitleEmpty = errors.New("article title cannot be empty")
)

// Researcher is a person in the knowledge base.
type Researcher struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Affiliation string    `json:"affiliation,omitempty"`
	ORCID       string    `json:"orcid,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the Researcher has valid data.
func (r *Researcher) Validate() error {
	if r.ID == uuid.Nil {
		return ErrIDEmpty
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameEmpty
	}
	return nil
}

// Article is a bibliographic reference (journal article, preprint).
type Article struct {
	ID      uuid.UUID   `json:"id"`
	Title   string      `json:"title"`
	DOI     string      `json:"doi,omitempty"`
	Journal string      `json:"journal,omitempty"`
	Year    int         `json:"year,omitempty"`
	Authors []uuid.UUID `json:"authors,omitempty"`
	TagIDs  []uuid.UUID `json:"tag_ids,omitempty"`
}

// Validate checks if the Article has valid data.
func (a *Article) Validate() error {
	if a.ID == uuid.Nil {
		return ErrIDEmpty
	}
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleEmpty
	}
	return nil
}

// Conference is a meeting or symposium tracked in the knowledge base.
type Conference struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
	StartsAt time.Time `json:"starts_at,omitempty"`
	EndsAt   time.Time `json:"ends_at,omitempty"`
}

// Validate checks if the Conference has valid data.
func (c *Conference) Validate() error {
	if c.ID == uuid.Nil {
		return ErrIDEmpty
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameEmpty
	}
	return nil
}

// Note is a free-text annotation attached to any other entity.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  uuid.UUID `json:"entity_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag labels entities for retrieval.
type Tag struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrIDEmpty
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrNameEmpty
	}
	return nil
}
