package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Item
var (
	ErrItemIDEmpty     = errors.New("item ID cannot be empty")
	ErrItemTitleEmpty  = errors.New("item title cannot be empty")
	ErrItemLinkEmpty   = errors.New("item link cannot be empty")
	ErrItemSourceEmpty = errors.New("item source ID cannot be empty")
	ErrItemHashEmpty   = errors.New("item content hash cannot be empty")
)

// Item represents one deduplicated unit ingested from a feed source.
// Items are created by the ingestion engine on first sighting and are
// never mutated afterwards.
type Item struct {
	ID          uuid.UUID  `json:"id"`
	SourceID    string     `json:"source_id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ContentHash string     `json:"content_hash"`
	FirstSeenAt time.Time  `json:"first_seen_at"`
}

// NewItem creates a new Item for the given source and raw fields. It
// generates a new UUID, computes the content hash over the normalized
// title and link, and stamps the first-seen time.
// Returns an error if validation fails.
func NewItem(sourceID, title, link, description string, publishedAt *time.Time) (*Item, error) {
	item := &Item{
		ID:          uuid.New(),
		SourceID:    sourceID,
		Title:       title,
		Link:        link,
		Description: description,
		PublishedAt: publishedAt,
		ContentHash: ContentHash(title, link),
		FirstSeenAt: time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}
	if i.SourceID == "" {
		return ErrItemSourceEmpty
	}
	if strings.TrimSpace(i.Title) == "" {
		return ErrItemTitleEmpty
	}
	if strings.TrimSpace(i.Link) == "" {
		return ErrItemLinkEmpty
	}
	if i.ContentHash == "" {
		return ErrItemHashEmpty
	}
	return nil
}

// ContentHash computes the stable dedup hash for an item: a SHA-256 digest
// over the normalized title and link. Two sightings of the same story from
// the same or different cycles produce the same hash, which backs the
// store's insert-if-absent semantics.
func ContentHash(title, link string) string {
	normalized := normalizeForHash(title) + "\n" + strings.TrimSpace(link)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// normalizeForHash collapses runs of whitespace to single spaces and
// lowercases the input so cosmetic feed differences do not defeat dedup.
func normalizeForHash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
