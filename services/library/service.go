// Package library serves the tiered content catalog. Items above the
// caller's tier are flagged as locked, not hidden, so the client can
// render the upsell affordance.
package library

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
	"github.com/neomind180-byte/neomind180-sub000/internal/navigation"
	librarysupabase "github.com/neomind180-byte/neomind180-sub000/services/library/supabase"
)

// TierResolver looks up the caller's subscription tier.
type TierResolver interface {
	TierFor(ctx context.Context, userID string) navigation.Tier
}

// Service serves the content library.
type Service struct {
	db    librarysupabase.RepositoryInterface
	tiers TierResolver
}

// New creates the library service. tiers may be nil; anonymous and
// unresolvable callers browse at the free tier.
func New(db librarysupabase.RepositoryInterface, tiers TierResolver) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("library: repository is required")
	}
	return &Service{db: db, tiers: tiers}, nil
}

// VisibleItem is a catalog entry annotated with lock state for a tier.
type VisibleItem struct {
	librarysupabase.LibraryItem
	Locked bool `json:"locked"`
}

// Visible annotates catalog items with the lock state for a tier.
func Visible(items []librarysupabase.LibraryItem, tier navigation.Tier) []VisibleItem {
	out := make([]VisibleItem, 0, len(items))
	for _, it := range items {
		out = append(out, VisibleItem{
			LibraryItem: it,
			Locked:      tier.Level() < it.MinTier,
		})
	}
	return out
}

// Routes registers the library endpoints on the given router.
func (s *Service) Routes(r *mux.Router) {
	r.HandleFunc("/library", s.handleList).Methods(http.MethodGet)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	tier := navigation.TierFree
	if userID := middleware.UserID(r.Context()); userID != "" && s.tiers != nil {
		tier = s.tiers.TierFor(r.Context(), userID)
	}

	var (
		items []librarysupabase.LibraryItem
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = s.db.ListByCategory(r.Context(), category)
	} else {
		items, err = s.db.List(r.Context())
	}
	if err != nil {
		httputil.InternalError(w, "failed to load library")
		return
	}

	httputil.WriteSuccess(w, Visible(items, tier))
}
