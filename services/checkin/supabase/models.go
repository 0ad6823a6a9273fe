// Package supabase provides check-in specific database records and access.
package supabase

import "time"

// CheckIn is one daily mood/intention submission with its generated
// coaching reply. Rows are created once and never mutated.
type CheckIn struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Mood      int       `json:"mood"`
	Feeling   string    `json:"feeling"`
	Intention string    `json:"intention"`
	Coaching  string    `json:"coaching"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Shift is one completed "be enough" flow: an unhelpful thought and the
// generated alternative perspective. Immutable after creation.
type Shift struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Thought     string    `json:"thought"`
	Evidence    string    `json:"evidence"`
	Emotion     string    `json:"emotion"`
	Perspective string    `json:"perspective"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
