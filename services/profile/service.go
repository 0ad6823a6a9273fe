// Package profile serves user profiles and the subscription tier that
// gates navigation, the library, and the chat quota.
package profile

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
	"github.com/neomind180-byte/neomind180-sub000/internal/navigation"
	profilesupabase "github.com/neomind180-byte/neomind180-sub000/services/profile/supabase"
)

// Service serves profiles and tier lookups.
type Service struct {
	db       profilesupabase.RepositoryInterface
	sections []navigation.Section
	log      zerolog.Logger
}

// New creates the profile service.
func New(db profilesupabase.RepositoryInterface, sections []navigation.Section, log zerolog.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("profile: repository is required")
	}
	if len(sections) == 0 {
		sections = navigation.DefaultSections()
	}
	return &Service{db: db, sections: sections, log: log}, nil
}

// TierFor resolves a user's tier, re-derived from the stored profile on
// every call. Lookup failures degrade to the free tier rather than
// blocking the request.
func (s *Service) TierFor(ctx context.Context, userID string) navigation.Tier {
	p, err := s.db.GetByUserID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("tier lookup failed")
		return navigation.TierFree
	}
	if p == nil {
		return navigation.TierFree
	}
	return navigation.ParseTier(p.Tier)
}

// Routes registers the profile and navigation endpoints.
func (s *Service) Routes(r *mux.Router) {
	r.HandleFunc("/profile", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/profile", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/profile/tier", s.handleUpdateTier).Methods(http.MethodPut)
	r.HandleFunc("/navigation", s.handleNavigation).Methods(http.MethodGet)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetByUserID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httputil.InternalError(w, "failed to load profile")
		return
	}
	if p == nil {
		httputil.WriteError(w, http.StatusNotFound, "profile not found")
		return
	}
	httputil.WriteSuccess(w, p)
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.DisplayName) != "" {
		updates["display_name"] = strings.TrimSpace(req.DisplayName)
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) == 0 {
		httputil.BadRequest(w, "nothing to update")
		return
	}

	p, err := s.db.Update(r.Context(), middleware.UserID(r.Context()), updates)
	if err != nil {
		httputil.InternalError(w, "failed to update profile")
		return
	}
	httputil.WriteSuccess(w, p)
}

type updateTierRequest struct {
	Tier string `json:"tier"`
}

// handleUpdateTier is the developer-mode tier switch. The value is
// normalized but otherwise unverified: there is no billing behind it.
func (s *Service) handleUpdateTier(w http.ResponseWriter, r *http.Request) {
	var req updateTierRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	tier := navigation.ParseTier(req.Tier)
	p, err := s.db.Update(r.Context(), middleware.UserID(r.Context()), map[string]interface{}{
		"subscription_tier": string(tier),
	})
	if err != nil {
		httputil.InternalError(w, "failed to update tier")
		return
	}
	httputil.WriteSuccess(w, p)
}

// handleNavigation resolves the section menu for the session tier.
func (s *Service) handleNavigation(w http.ResponseWriter, r *http.Request) {
	tier := s.TierFor(r.Context(), middleware.UserID(r.Context()))
	httputil.WriteSuccess(w, map[string]any{
		"tier":     tier,
		"sections": navigation.Resolve(s.sections, tier),
	})
}
