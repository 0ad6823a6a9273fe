// Package supabase provides coach-desk database records and access:
// asynchronous coach messages and circle invites.
package supabase

import "time"

// CoachMessage status values. The transition is one-way: pending → replied.
const (
	StatusPending = "pending"
	StatusReplied = "replied"
)

// CoachMessage is one user-to-coach message thread entry.
type CoachMessage struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"user_id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CoachReply *string   `json:"coach_reply,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// CircleInvite is a group-session invite managed by the coach.
type CircleInvite struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SessionDate time.Time `json:"session_date"`
	AccessLink  string    `json:"access_link"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
