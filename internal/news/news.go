// Package news holds the item model shared by the ingestion pipeline,
// the snapshot store and the query surface.
package news

import (
	"strings"
	"time"
)

// Item is a single cached news entry. Items are immutable once built by
// the enricher; PublishedAt is always UTC.
type Item struct {
	Region       string    `json:"region"`
	Source       string    `json:"source"`
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Summary      string    `json:"summary"`
	Keywords     []string  `json:"keywords"`
	Embedding    []float32 `json:"-"`
}

// Draft is a normalized raw entry that has not been enriched yet. Body
// carries the text the enricher summarizes and embeds; it may be empty.
type Draft struct {
	Region       string
	Source       string
	Title        string
	Link         string
	PublishedAt  time.Time
	ThumbnailURL string
	Body         string
}

// EmbeddingText is the text an item's vector is computed from.
func (it Item) EmbeddingText() string {
	return it.Title + " " + it.Summary
}

// KeywordText is the text keywords are extracted from.
func (d Draft) KeywordText() string {
	return strings.TrimSpace(d.Title + " " + d.Body)
}
