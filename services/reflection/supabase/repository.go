package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/neomind180-byte/neomind180-sub000/internal/database"
)

const tableReflections = "reflections"

// RepositoryInterface defines reflection data access.
type RepositoryInterface interface {
	GetByUser(ctx context.Context, userID string) (*Reflection, error)
	Save(ctx context.Context, ref *Reflection) error
}

var _ RepositoryInterface = (*Repository)(nil)

// Repository provides reflection data access over the base repository.
type Repository struct {
	base *database.Repository
}

// NewRepository creates a reflection repository.
func NewRepository(base *database.Repository) *Repository {
	return &Repository{base: base}
}

// GetByUser fetches a user's transcript. Returns (nil, nil) when the user
// has not chatted yet.
func (r *Repository) GetByUser(ctx context.Context, userID string) (*Reflection, error) {
	if err := database.ValidateUserID(userID); err != nil {
		return nil, err
	}
	var rows []Reflection
	query := "user_id=eq." + url.QueryEscape(userID) + "&limit=1"
	if err := r.base.Select(ctx, tableReflections, query, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Save creates the transcript row on first use and rewrites it wholesale
// afterwards. Last writer wins; concurrent sessions clobber each other.
func (r *Repository) Save(ctx context.Context, ref *Reflection) error {
	if ref == nil {
		return fmt.Errorf("%w: reflection cannot be nil", database.ErrInvalidInput)
	}
	if err := database.ValidateUserID(ref.UserID); err != nil {
		return err
	}

	ref.UpdatedAt = time.Now().UTC()
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = ref.UpdatedAt
	}
	if ref.ID == "" {
		return r.base.Insert(ctx, tableReflections, ref, ref)
	}

	query := "id=eq." + url.QueryEscape(ref.ID)
	err := r.base.Update(ctx, tableReflections, ref, ref, query)
	if errors.Is(err, database.ErrNotFound) {
		return r.base.Insert(ctx, tableReflections, ref, ref)
	}
	return err
}
