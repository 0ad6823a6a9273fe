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
	tableCheckIns = "check_ins"
	tableShifts   = "shifts"
)

// RepositoryInterface defines check-in data access. Kept as an interface
// for easy mocking in service tests.
type RepositoryInterface interface {
	CreateCheckIn(ctx context.Context, c *CheckIn) error
	ListCheckIns(ctx context.Context, userID string) ([]CheckIn, error)
	CreateShift(ctx context.Context, s *Shift) error
	ListShifts(ctx context.Context, userID string) ([]Shift, error)
}

var _ RepositoryInterface = (*Repository)(nil)

// Repository provides check-in data access over the base repository.
type Repository struct {
	base *database.Repository
}

// NewRepository creates a check-in repository.
func NewRepository(base *database.Repository) *Repository {
	return &Repository{base: base}
}

// CreateCheckIn inserts a check-in row and backfills server-set fields.
func (r *Repository) CreateCheckIn(ctx context.Context, c *CheckIn) error {
	if c == nil {
		return fmt.Errorf("%w: check-in cannot be nil", database.ErrInvalidInput)
	}
	if err := database.ValidateUserID(c.UserID); err != nil {
		return err
	}
	c.CreatedAt = time.Now().UTC()
	return r.base.Insert(ctx, tableCheckIns, c, c)
}

// ListCheckIns returns a user's check-ins, newest first.
func (r *Repository) ListCheckIns(ctx context.Context, userID string) ([]CheckIn, error) {
	if err := database.ValidateUserID(userID); err != nil {
		return nil, err
	}
	var rows []CheckIn
	query := "user_id=eq." + url.QueryEscape(userID) + "&order=created_at.desc"
	if err := r.base.Select(ctx, tableCheckIns, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateShift inserts a shift row and backfills server-set fields.
func (r *Repository) CreateShift(ctx context.Context, s *Shift) error {
	if s == nil {
		return fmt.Errorf("%w: shift cannot be nil", database.ErrInvalidInput)
	}
	if err := database.ValidateUserID(s.UserID); err != nil {
		return err
	}
	s.CreatedAt = time.Now().UTC()
	return r.base.Insert(ctx, tableShifts, s, s)
}

// ListShifts returns a user's shifts, newest first.
func (r *Repository) ListShifts(ctx context.Context, userID string) ([]Shift, error) {
	if err := database.ValidateUserID(userID); err != nil {
		return nil, err
	}
	var rows []Shift
	query := "user_id=eq." + url.QueryEscape(userID) + "&order=created_at.desc"
	if err := r.base.Select(ctx, tableShifts, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
