package supabase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/neomind180-byte/neomind180-sub000/internal/database"
)

const tableProfiles = "profiles"

// RepositoryInterface defines profile data access.
type RepositoryInterface interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*Profile, error)
}

var _ RepositoryInterface = (*Repository)(nil)

// Repository provides profile data access over the base repository.
type Repository struct {
	base *database.Repository
}

// NewRepository creates a profile repository.
func NewRepository(base *database.Repository) *Repository {
	return &Repository{base: base}
}

// GetByUserID fetches a profile. Returns (nil, nil) when the profile row
// has not been created yet.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	if err := database.ValidateUserID(userID); err != nil {
		return nil, err
	}
	var rows []Profile
	query := "user_id=eq." + url.QueryEscape(userID) + "&limit=1"
	if err := r.base.Select(ctx, tableProfiles, query, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Update patches a profile unconditionally (last writer wins).
func (r *Repository) Update(ctx context.Context, userID string, updates map[string]interface{}) (*Profile, error) {
	if err := database.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", database.ErrInvalidInput)
	}
	updates["updated_at"] = time.Now().UTC()

	var out Profile
	query := "user_id=eq." + url.QueryEscape(userID)
	if err := r.base.Update(ctx, tableProfiles, updates, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}
