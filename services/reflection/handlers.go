package reflection

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
	"github.com/neomind180-byte/neomind180-sub000/internal/navigation"
)

// TierResolver looks up the subscription tier backing the message quota.
type TierResolver interface {
	TierFor(ctx context.Context, userID string) navigation.Tier
}

// Handler exposes the chat endpoints.
type Handler struct {
	svc   *Service
	tiers TierResolver
}

// NewHandler creates the reflection HTTP handler. tiers may be nil, in
// which case every session is treated as free tier.
func NewHandler(svc *Service, tiers TierResolver) *Handler {
	return &Handler{svc: svc, tiers: tiers}
}

// Routes registers the reflection endpoints on the given router.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/chat-turn", h.handleChatTurn).Methods(http.MethodPost)
	r.HandleFunc("/reflection", h.handleTranscript).Methods(http.MethodGet)
}

type chatTurnRequest struct {
	Message string    `json:"message"`
	History []ai.Turn `json:"history"`
}

// handleChatTurn generates one assistant reply. Provider failures return
// 500 with a user-facing fallback string rather than a bare error.
func (h *Handler) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	var req chatTurnRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		httputil.BadRequest(w, "message is required")
		return
	}

	userID := middleware.UserID(r.Context())
	tier := navigation.TierFree
	if userID != "" && h.tiers != nil {
		tier = h.tiers.TierFor(r.Context(), userID)
	}

	turn, err := h.svc.SendTurn(r.Context(), userID, tier, req.Message, req.History)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			httputil.WriteError(w, http.StatusForbidden, "message limit reached for your plan")
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"role":    ai.RoleAssistant,
			"content": ai.FriendlyMessage(err),
			"error":   true,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, turn)
}

// handleTranscript returns the session user's stored transcript.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		httputil.Unauthorized(w, "missing authorization")
		return
	}

	ref, err := h.svc.Transcript(r.Context(), userID)
	if err != nil {
		httputil.InternalError(w, "failed to load transcript")
		return
	}
	if ref == nil {
		httputil.WriteSuccess(w, map[string]any{"messages": []ai.Turn{}})
		return
	}
	httputil.WriteSuccess(w, ref)
}
