package supabase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/neomind180-byte/neomind180-sub000/internal/database"
)

// Table names
const (
	tableCoachMessages = "coach_messages"
	tableCircleInvites = "circle_invites"
)

// RepositoryInterface defines coach-desk data access.
type RepositoryInterface interface {
	CreateMessage(ctx context.Context, m *CoachMessage) error
	ListMessagesByUser(ctx context.Context, userID string) ([]CoachMessage, error)
	ListPendingMessages(ctx context.Context) ([]CoachMessage, error)
	GetMessage(ctx context.Context, id string) (*CoachMessage, error)
	ReplyToMessage(ctx context.Context, id, reply string) (*CoachMessage, error)

	CreateInvite(ctx context.Context, inv *CircleInvite) error
	ListInvites(ctx context.Context) ([]CircleInvite, error)
	DeleteInvite(ctx context.Context, id string) error
}

var _ RepositoryInterface = (*Repository)(nil)

// Repository provides coach-desk data access over the base repository.
type Repository struct {
	base *database.Repository
}

// NewRepository creates a coach-desk repository.
func NewRepository(base *database.Repository) *Repository {
	return &Repository{base: base}
}

// CreateMessage inserts a coach message with status pending.
func (r *Repository) CreateMessage(ctx context.Context, m *CoachMessage) error {
	if m == nil {
		return fmt.Errorf("%w: message cannot be nil", database.ErrInvalidInput)
	}
	if err := database.ValidateUserID(m.UserID); err != nil {
		return err
	}
	m.Status = StatusPending
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	return r.base.Insert(ctx, tableCoachMessages, m, m)
}

// ListMessagesByUser returns a user's messages, newest first.
func (r *Repository) ListMessagesByUser(ctx context.Context, userID string) ([]CoachMessage, error) {
	if err := database.ValidateUserID(userID); err != nil {
		return nil, err
	}
	var rows []CoachMessage
	query := "user_id=eq." + url.QueryEscape(userID) + "&order=created_at.desc"
	if err := r.base.Select(ctx, tableCoachMessages, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingMessages returns all unanswered messages, oldest first.
func (r *Repository) ListPendingMessages(ctx context.Context) ([]CoachMessage, error) {
	var rows []CoachMessage
	query := "status=eq." + StatusPending + "&order=created_at.asc"
	if err := r.base.Select(ctx, tableCoachMessages, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetMessage fetches one message by id.
func (r *Repository) GetMessage(ctx context.Context, id string) (*CoachMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id cannot be empty", database.ErrInvalidInput)
	}
	var rows []CoachMessage
	query := "id=eq." + url.QueryEscape(id) + "&limit=1"
	if err := r.base.Select(ctx, tableCoachMessages, query, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: coach message %s", database.ErrNotFound, id)
	}
	return &rows[0], nil
}

// ReplyToMessage records the coach reply and flips status to replied. The
// filter on status=pending makes the transition one-way: a second reply
// to the same message matches no rows.
func (r *Repository) ReplyToMessage(ctx context.Context, id, reply string) (*CoachMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id cannot be empty", database.ErrInvalidInput)
	}
	patch := map[string]interface{}{
		"coach_reply": reply,
		"status":      StatusReplied,
		"updated_at":  time.Now().UTC(),
	}
	var out CoachMessage
	query := "id=eq." + url.QueryEscape(id) + "&status=eq." + StatusPending
	if err := r.base.Update(ctx, tableCoachMessages, patch, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvite inserts a circle invite.
func (r *Repository) CreateInvite(ctx context.Context, inv *CircleInvite) error {
	if inv == nil {
		return fmt.Errorf("%w: invite cannot be nil", database.ErrInvalidInput)
	}
	inv.CreatedAt = time.Now().UTC()
	return r.base.Insert(ctx, tableCircleInvites, inv, inv)
}

// ListInvites returns all invites, next session first.
func (r *Repository) ListInvites(ctx context.Context) ([]CircleInvite, error) {
	var rows []CircleInvite
	if err := r.base.Select(ctx, tableCircleInvites, "order=session_date.asc", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteInvite removes an invite outright; invites have no partial update.
func (r *Repository) DeleteInvite(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", database.ErrInvalidInput)
	}
	return r.base.Delete(ctx, tableCircleInvites, "id=eq."+url.QueryEscape(id))
}
