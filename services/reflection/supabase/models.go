// Package supabase provides reflection-transcript database records and
// access.
package supabase

import (
	"time"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
)

// Reflection is a user's chat transcript. The messages column holds the
// whole ordered turn list as JSON; every write replaces it wholesale.
type Reflection struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Messages    []ai.Turn `json:"messages"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
