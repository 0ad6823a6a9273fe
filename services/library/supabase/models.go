// Package supabase provides library-catalog database records and access.
package supabase

import "time"

// Item types in the content library.
const (
	TypeGuide     = "Guide"
	TypeArticle   = "Article"
	TypeWorksheet = "Worksheet"
	TypeAudio     = "Audio"
	TypeVideo     = "Video"
)

// LibraryItem is one catalog entry. The catalog is managed out-of-band
// and read-only to this service.
type LibraryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Duration  string    `json:"duration"`
	MinTier   int       `json:"min_tier"`
	URL       string    `json:"content_url"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
