package supabase

import (
	"context"
	"net/url"

	"github.com/neomind180-byte/neomind180-sub000/internal/database"
)

const tableLibraryItems = "library_items"

// RepositoryInterface defines library data access.
type RepositoryInterface interface {
	List(ctx context.Context) ([]LibraryItem, error)
	ListByCategory(ctx context.Context, category string) ([]LibraryItem, error)
}

var _ RepositoryInterface = (*Repository)(nil)

// Repository provides library data access over the base repository.
type Repository struct {
	base *database.Repository
}

// NewRepository creates a library repository.
func NewRepository(base *database.Repository) *Repository {
	return &Repository{base: base}
}

// List returns the whole catalog, alphabetical by title.
func (r *Repository) List(ctx context.Context) ([]LibraryItem, error) {
	var rows []LibraryItem
	if err := r.base.Select(ctx, tableLibraryItems, "order=title.asc", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory filters the catalog by category.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]LibraryItem, error) {
	var rows []LibraryItem
	query := "category=eq." + url.QueryEscape(category) + "&order=title.asc"
	if err := r.base.Select(ctx, tableLibraryItems, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
