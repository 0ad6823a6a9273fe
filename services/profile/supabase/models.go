// Package supabase provides profile database records and access.
package supabase

import "time"

// Profile is a user's app profile. The tier field is user-editable from
// the developer-mode panel; there is no billing enforcement behind it.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Tier        string    `json:"subscription_tier"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
