package coachdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/mail"
	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
	coachsupabase "github.com/neomind180-byte/neomind180-sub000/services/coachdesk/supabase"
)

const testJWTSecret = "test-jwt-secret"

// mockSender records every send.
type mockSender struct {
	sent    []mail.Message
	sendErr error
}

func (m *mockSender) Send(_ context.Context, msg mail.Message) (string, error) {
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

// mockRepo stores messages and invites in memory.
type mockRepo struct {
	messages []coachsupabase.CoachMessage
	invites  []coachsupabase.CircleInvite
}

func (m *mockRepo) CreateMessage(_ context.Context, msg *coachsupabase.CoachMessage) error {
	msg.ID = fmt.Sprintf("cm-%d", len(m.messages)+1)
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockRepo) ListMessagesByUser(_ context.Context, userID string) ([]coachsupabase.CoachMessage, error) {
	var out []coachsupabase.CoachMessage
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockRepo) ListPendingMessages(_ context.Context) ([]coachsupabase.CoachMessage, error) {
	var out []coachsupabase.CoachMessage
	for _, msg := range m.messages {
		if msg.Status == coachsupabase.StatusPending {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockRepo) GetMessage(_ context.Context, id string) (*coachsupabase.CoachMessage, error) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return &m.messages[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockRepo) ReplyToMessage(_ context.Context, id, reply string) (*coachsupabase.CoachMessage, error) {
	for i := range m.messages {
		if m.messages[i].ID == id && m.messages[i].Status == coachsupabase.StatusPending {
			m.messages[i].CoachReply = &reply
			m.messages[i].Status = coachsupabase.StatusReplied
			return &m.messages[i], nil
		}
	}
	return nil, errors.New("no pending message matched")
}

func (m *mockRepo) CreateInvite(_ context.Context, inv *coachsupabase.CircleInvite) error {
	inv.ID = fmt.Sprintf("ci-%d", len(m.invites)+1)
	m.invites = append(m.invites, *inv)
	return nil
}

func (m *mockRepo) ListInvites(_ context.Context) ([]coachsupabase.CircleInvite, error) {
	return m.invites, nil
}

func (m *mockRepo) DeleteInvite(_ context.Context, id string) error {
	for i := range m.invites {
		if m.invites[i].ID == id {
			m.invites = append(m.invites[:i], m.invites[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// newTestServer mounts the service behind the same middleware stack the
// server binary uses.
func newTestServer(t *testing.T, repo *mockRepo, sender *mockSender, staticToken string) *mux.Router {
	t.Helper()
	svc, err := New(Config{
		DB:         repo,
		Mailer:     sender,
		CoachEmail: "coach@example.com",
		SiteURL:    "https://app.example.com",
		Log:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	auth := middleware.NewAuth(testJWTSecret, nil, zerolog.Nop())

	r := mux.NewRouter()

	open := r.PathPrefix("/api").Subrouter()
	svc.PublicRoutes(open)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Require)
	svc.Routes(authed)

	coach := r.PathPrefix("/api").Subrouter()
	coach.Use(auth.Require, middleware.RequireCoach)
	svc.CoachRoutes(coach)

	webhook := r.PathPrefix("/api").Subrouter()
	webhook.Use(middleware.StaticToken(staticToken))
	svc.WebhookRoutes(webhook)

	return r
}

func signToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	claims := middleware.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if role != "" {
		claims.AppMetadata = map[string]interface{}{"role": role}
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func jsonReq(t *testing.T, method, path string, body any, bearer string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func TestCoachNotifyRequiresSessionBeforeSending(t *testing.T) {
	sender := &mockSender{}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")

	req := jsonReq(t, http.MethodPost, "/api/coach-notify", map[string]string{"subject": "s", "message": "m"}, "")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no email may be sent without a session, got %d", len(sender.sent))
	}
}

func TestCoachNotifySendsWithSessionEmail(t *testing.T) {
	sender := &mockSender{}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")
	token := signToken(t, "u1", "user@example.com", "")

	req := jsonReq(t, http.MethodPost, "/api/coach-notify", map[string]string{"subject": "stuck", "message": "need help"}, token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.Code, resp.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "coach@example.com" {
		t.Fatalf("to = %q, want coach address", msg.To)
	}
	if !strings.Contains(msg.HTML, "user@example.com") {
		t.Fatalf("body should carry the sender's email: %s", msg.HTML)
	}
	if !strings.Contains(msg.Subject, "stuck") {
		t.Fatalf("subject should carry the user subject: %q", msg.Subject)
	}
}

func TestCoachNotifyDuplicateSubmissionsSendTwice(t *testing.T) {
	sender := &mockSender{}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")
	token := signToken(t, "u1", "user@example.com", "")
	body := map[string]string{"subject": "same", "message": "same"}

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/coach-notify", body, token))
		if resp.Code != http.StatusOK {
			t.Fatalf("send %d: status = %d", i+1, resp.Code)
		}
	}
	if len(sender.sent) != 2 {
		t.Fatalf("identical payloads are not deduplicated, want 2 sends, got %d", len(sender.sent))
	}
}

func TestUserNotifyStaticToken(t *testing.T) {
	sender := &mockSender{}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")
	record := map[string]any{"record": map[string]string{
		"user_email":  "user@example.com",
		"user_name":   "Sam",
		"subject":     "stuck",
		"coach_reply": "you have got this",
	}}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/user-notify", record, ""))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/user-notify", record, "wrong-token"))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", resp.Code)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("rejected requests must not send, got %d", len(sender.sent))
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/user-notify", record, "hook-token"))
	if resp.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d: %s", resp.Code, resp.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if sender.sent[0].To != "user@example.com" {
		t.Fatalf("to = %q", sender.sent[0].To)
	}
}

func TestUserNotifyRejectsIncompleteRecord(t *testing.T) {
	sender := &mockSender{}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")

	record := map[string]any{"record": map[string]string{
		"user_email": "user@example.com",
		"subject":    "stuck",
	}}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/user-notify", record, "hook-token"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("incomplete record must not send")
	}
}

func TestSendMailPassthrough(t *testing.T) {
	sender := &mockSender{}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/send-mail", map[string]string{
		"email":   "new@example.com",
		"subject": "Welcome",
		"html":    "<p>hi</p>",
	}, ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Data.ID == "" {
		t.Fatalf("response should carry the provider message id")
	}
}

func TestSendMailSurfacesProviderError(t *testing.T) {
	sender := &mockSender{sendErr: mail.ErrMissingCredentials}
	r := newTestServer(t, &mockRepo{}, sender, "hook-token")

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/send-mail", map[string]string{
		"email":   "new@example.com",
		"subject": "Welcome",
		"html":    "<p>hi</p>",
	}, ""))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Code)
	}
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Error == "" {
		t.Fatalf("error field must be set")
	}
}

func TestPendingMessagesRequiresCoachRole(t *testing.T) {
	repo := &mockRepo{}
	r := newTestServer(t, repo, &mockSender{}, "hook-token")

	userToken := signToken(t, "u1", "user@example.com", "")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodGet, "/api/coach-messages/pending", nil, userToken))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("regular session: status = %d, want 403", resp.Code)
	}

	coachToken := signToken(t, "c1", "coach@example.com", middleware.RoleCoach)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodGet, "/api/coach-messages/pending", nil, coachToken))
	if resp.Code != http.StatusOK {
		t.Fatalf("coach session: status = %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReplyFlowIsOneWay(t *testing.T) {
	repo := &mockRepo{}
	r := newTestServer(t, repo, &mockSender{}, "hook-token")

	userToken := signToken(t, "u1", "user@example.com", "")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/coach-messages", map[string]string{"subject": "stuck", "message": "help"}, userToken))
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d: %s", resp.Code, resp.Body.String())
	}
	if len(repo.messages) != 1 || repo.messages[0].Status != coachsupabase.StatusPending {
		t.Fatalf("message should be stored pending: %+v", repo.messages)
	}
	id := repo.messages[0].ID

	coachToken := signToken(t, "c1", "coach@example.com", middleware.RoleCoach)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/coach-messages/"+id+"/reply", map[string]string{"reply": "try this"}, coachToken))
	if resp.Code != http.StatusOK {
		t.Fatalf("reply: status = %d: %s", resp.Code, resp.Body.String())
	}
	if repo.messages[0].Status != coachsupabase.StatusReplied {
		t.Fatalf("reply not recorded: %+v", repo.messages[0])
	}
	if repo.messages[0].CoachReply == nil || *repo.messages[0].CoachReply != "try this" {
		t.Fatalf("reply text wrong: %+v", repo.messages[0])
	}

	// A second reply matches no pending row.
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/coach-messages/"+id+"/reply", map[string]string{"reply": "changed my mind"}, coachToken))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("second reply: status = %d, want failure", resp.Code)
	}
	if *repo.messages[0].CoachReply != "try this" {
		t.Fatalf("replied message must not change: %+v", repo.messages[0])
	}
}

func TestCircleInviteLifecycle(t *testing.T) {
	repo := &mockRepo{}
	r := newTestServer(t, repo, &mockSender{}, "hook-token")
	coachToken := signToken(t, "c1", "coach@example.com", middleware.RoleCoach)
	userToken := signToken(t, "u1", "user@example.com", "")

	// Only the coach can create.
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/circles", map[string]any{
		"title":       "Evening circle",
		"sessionDate": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"accessLink":  "https://meet.example.com/abc",
	}, userToken))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("user create: status = %d, want 403", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodPost, "/api/circles", map[string]any{
		"title":       "Evening circle",
		"sessionDate": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"accessLink":  "https://meet.example.com/abc",
	}, coachToken))
	if resp.Code != http.StatusCreated {
		t.Fatalf("coach create: status = %d: %s", resp.Code, resp.Body.String())
	}
	if len(repo.invites) != 1 || repo.invites[0].CreatedBy != "c1" {
		t.Fatalf("invite not recorded for coach: %+v", repo.invites)
	}

	// Any session can list.
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodGet, "/api/circles", nil, userToken))
	if resp.Code != http.StatusOK {
		t.Fatalf("list: status = %d", resp.Code)
	}

	// Delete is coach-only and removes the row.
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, jsonReq(t, http.MethodDelete, "/api/circles/"+repo.invites[0].ID, nil, coachToken))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", resp.Code)
	}
	if len(repo.invites) != 0 {
		t.Fatalf("invite should be gone: %+v", repo.invites)
	}
}
