package checkin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
)

// Routes registers the check-in endpoints on the given router.
func (s *Service) Routes(r *mux.Router) {
	r.HandleFunc("/coaching", s.handleCoaching).Methods(http.MethodPost)
	r.HandleFunc("/checkins", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/shift", s.handleShift).Methods(http.MethodPost)
	r.HandleFunc("/flow/{journey}", s.handleFlowStart).Methods(http.MethodGet)
	r.HandleFunc("/flow/step", s.handleFlowStep).Methods(http.MethodPost)
}

type coachingRequest struct {
	Feeling   string `json:"feeling"`
	Intention string `json:"intention"`
	Mood      int    `json:"mood"`
	UserID    string `json:"userId"`
}

type coachingResponse struct {
	Success  bool   `json:"success"`
	Coaching string `json:"coaching,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleCoaching accepts a check-in submission, generates coaching, and
// persists the row. Validation failures return 400 before any provider or
// store call.
func (s *Service) handleCoaching(w http.ResponseWriter, r *http.Request) {
	var req coachingRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	req.Feeling = strings.TrimSpace(req.Feeling)
	req.Intention = strings.TrimSpace(req.Intention)
	if req.Feeling == "" || req.Intention == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, coachingResponse{
			Success: false,
			Error:   "feeling and intention are required",
		})
		return
	}

	// Session identity wins over the body field when both are present.
	userID := middleware.UserID(r.Context())
	if userID == "" {
		userID = strings.TrimSpace(req.UserID)
	}
	if userID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, coachingResponse{
			Success: false,
			Error:   "userId is required",
		})
		return
	}

	coaching, err := s.Submit(r.Context(), SubmitRequest{
		UserID:    userID,
		Mood:      req.Mood,
		Feeling:   req.Feeling,
		Intention: req.Intention,
	})
	if err != nil {
		msg := "failed to generate coaching"
		if errors.Is(err, ai.ErrMissingKey) {
			msg = ai.ErrMissingKey.Error()
		}
		s.log.Error().Err(err).Msg("coaching submission failed")
		httputil.WriteJSON(w, http.StatusInternalServerError, coachingResponse{
			Success: false,
			Error:   msg,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, coachingResponse{Success: true, Coaching: coaching})
}

// handleHistory lists the session user's past check-ins.
func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		httputil.Unauthorized(w, "missing authorization")
		return
	}

	rows, err := s.History(r.Context(), userID)
	if err != nil {
		httputil.InternalError(w, "failed to load check-ins")
		return
	}
	httputil.WriteSuccess(w, rows)
}

type shiftRequest struct {
	Thought  string `json:"thought"`
	Evidence string `json:"evidence"`
	Emotion  string `json:"emotion"`
}

// handleShift runs the "be enough" flow completion.
func (s *Service) handleShift(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		httputil.Unauthorized(w, "missing authorization")
		return
	}

	var req shiftRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Thought) == "" || strings.TrimSpace(req.Emotion) == "" {
		httputil.BadRequest(w, "thought and emotion are required")
		return
	}

	row, err := s.Shift(r.Context(), ShiftRequest{
		UserID:   userID,
		Thought:  req.Thought,
		Evidence: req.Evidence,
		Emotion:  req.Emotion,
	})
	if err != nil {
		if errors.Is(err, ai.ErrMissingKey) {
			httputil.InternalError(w, ai.ErrMissingKey.Error())
			return
		}
		httputil.InternalError(w, "failed to generate perspective")
		return
	}
	httputil.WriteSuccess(w, row)
}
