package coachdesk

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
)

// Routes registers the session-authenticated coach-desk endpoints.
func (s *Service) Routes(r *mux.Router) {
	r.HandleFunc("/coach-notify", s.handleCoachNotify).Methods(http.MethodPost)
	r.HandleFunc("/coach-messages", s.handleSubmitMessage).Methods(http.MethodPost)
	r.HandleFunc("/coach-messages", s.handleListMessages).Methods(http.MethodGet)
	r.HandleFunc("/circles", s.handleListInvites).Methods(http.MethodGet)
}

// CoachRoutes registers the coach-role endpoints.
func (s *Service) CoachRoutes(r *mux.Router) {
	r.HandleFunc("/coach-messages/pending", s.handlePendingMessages).Methods(http.MethodGet)
	r.HandleFunc("/coach-messages/{id}/reply", s.handleReply).Methods(http.MethodPost)
	r.HandleFunc("/circles", s.handleCreateInvite).Methods(http.MethodPost)
	r.HandleFunc("/circles/{id}", s.handleDeleteInvite).Methods(http.MethodDelete)
}

// WebhookRoutes registers the static-token endpoints invoked by the
// database webhook.
func (s *Service) WebhookRoutes(r *mux.Router) {
	r.HandleFunc("/user-notify", s.handleUserNotify).Methods(http.MethodPost)
}

// PublicRoutes registers unauthenticated passthrough endpoints.
func (s *Service) PublicRoutes(r *mux.Router) {
	r.HandleFunc("/send-mail", s.handleSendMail).Methods(http.MethodPost)
}

type coachNotifyRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// handleCoachNotify triggers the coach email for an already-persisted
// message. The CoachMessage row is inserted separately by the submit
// endpoint; a failed send here rolls nothing back.
func (s *Service) handleCoachNotify(w http.ResponseWriter, r *http.Request) {
	var req coachNotifyRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		httputil.BadRequest(w, "subject and message are required")
		return
	}

	if err := s.NotifyCoach(r.Context(), middleware.Email(r.Context()), req.Subject, req.Message); err != nil {
		s.log.Error().Err(err).Msg("coach notification failed")
		httputil.InternalError(w, "failed to send notification")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type userNotifyRequest struct {
	Record UserNotifyRecord `json:"record"`
}

// handleUserNotify handles the coach-reply webhook. The static bearer
// token is enforced by middleware before this runs.
func (s *Service) handleUserNotify(w http.ResponseWriter, r *http.Request) {
	var req userNotifyRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	rec := req.Record
	if rec.UserEmail == "" || rec.UserName == "" || rec.Subject == "" || rec.CoachReply == "" {
		httputil.BadRequest(w, "record requires user_email, user_name, subject and coach_reply")
		return
	}

	id, err := s.NotifyUser(r.Context(), rec)
	if err != nil {
		s.log.Error().Err(err).Str("to", rec.UserEmail).Msg("user notification failed")
		httputil.InternalError(w, "failed to send notification")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "messageId": id})
}

type sendMailRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// handleSendMail is the raw send passthrough.
func (s *Service) handleSendMail(w http.ResponseWriter, r *http.Request) {
	var req sendMailRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Subject == "" || req.HTML == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "email, subject and html are required"})
		return
	}

	id, err := s.SendMail(r.Context(), req.Email, req.Subject, req.HTML)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"id": id}})
}

type submitMessageRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Service) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req submitMessageRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		httputil.BadRequest(w, "subject and message are required")
		return
	}

	row, err := s.SubmitMessage(r.Context(), userID, req.Subject, req.Message)
	if err != nil {
		httputil.InternalError(w, "failed to save message")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.APIResponse{Success: true, Data: row})
}

func (s *Service) handleListMessages(w http.ResponseWriter, r *http.Request) {
	rows, err := s.MessagesForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httputil.InternalError(w, "failed to load messages")
		return
	}
	httputil.WriteSuccess(w, rows)
}

func (s *Service) handlePendingMessages(w http.ResponseWriter, r *http.Request) {
	rows, err := s.PendingMessages(r.Context())
	if err != nil {
		httputil.InternalError(w, "failed to load messages")
		return
	}
	httputil.WriteSuccess(w, rows)
}

type replyRequest struct {
	Reply string `json:"reply"`
}

func (s *Service) handleReply(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req replyRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Reply) == "" {
		httputil.BadRequest(w, "reply is required")
		return
	}

	row, err := s.Reply(r.Context(), id, req.Reply)
	if err != nil {
		httputil.InternalError(w, "failed to record reply")
		return
	}
	httputil.WriteSuccess(w, row)
}

type createInviteRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SessionDate time.Time `json:"sessionDate"`
	AccessLink  string    `json:"accessLink"`
}

func (s *Service) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.SessionDate.IsZero() {
		httputil.BadRequest(w, "title and sessionDate are required")
		return
	}

	inv, err := s.CreateInvite(r.Context(), middleware.UserID(r.Context()), req.Title, req.Description, req.AccessLink, req.SessionDate)
	if err != nil {
		httputil.InternalError(w, "failed to create invite")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.APIResponse{Success: true, Data: inv})
}

func (s *Service) handleDeleteInvite(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteInvite(r.Context(), mux.Vars(r)["id"]); err != nil {
		httputil.InternalError(w, "failed to delete invite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleListInvites(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ListInvites(r.Context())
	if err != nil {
		httputil.InternalError(w, "failed to load invites")
		return
	}
	httputil.WriteSuccess(w, rows)
}
