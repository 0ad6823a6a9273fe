// Package coachdesk implements the human-coach surface: asynchronous
// coach messages, the notification emails around them, and circle
// invites.
package coachdesk

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/mail"
	"github.com/neomind180-byte/neomind180-sub000/internal/metrics"
	coachsupabase "github.com/neomind180-byte/neomind180-sub000/services/coachdesk/supabase"
)

// Service handles coach messages, notification email, and circle invites.
type Service struct {
	db      coachsupabase.RepositoryInterface
	mailer  mail.Sender
	coachTo string
	siteURL string
	log     zerolog.Logger
}

// Config configures the coach-desk service.
type Config struct {
	DB         coachsupabase.RepositoryInterface
	Mailer     mail.Sender
	CoachEmail string
	SiteURL    string
	Log        zerolog.Logger
}

// New creates the coach-desk service.
func New(cfg Config) (*Service, error) {
	if cfg.Mailer == nil {
		return nil, fmt.Errorf("coachdesk: mail sender is required")
	}
	return &Service{
		db:      cfg.DB,
		mailer:  cfg.Mailer,
		coachTo: cfg.CoachEmail,
		siteURL: cfg.SiteURL,
		log:     cfg.Log,
	}, nil
}

// SubmitMessage inserts a pending coach message for the user.
func (s *Service) SubmitMessage(ctx context.Context, userID, subject, message string) (*coachsupabase.CoachMessage, error) {
	row := &coachsupabase.CoachMessage{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}
	if err := s.db.CreateMessage(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// MessagesForUser lists a user's coach messages.
func (s *Service) MessagesForUser(ctx context.Context, userID string) ([]coachsupabase.CoachMessage, error) {
	return s.db.ListMessagesByUser(ctx, userID)
}

// PendingMessages lists unanswered messages for the coach inbox.
func (s *Service) PendingMessages(ctx context.Context) ([]coachsupabase.CoachMessage, error) {
	return s.db.ListPendingMessages(ctx)
}

// Reply records the coach's reply; the message transitions to replied and
// never back.
func (s *Service) Reply(ctx context.Context, id, reply string) (*coachsupabase.CoachMessage, error) {
	return s.db.ReplyToMessage(ctx, id, reply)
}

// NotifyCoach emails the coach about a new user message. Each call sends
// independently: identical payloads produce two emails, by design of the
// original flow (no deduplication).
func (s *Service) NotifyCoach(ctx context.Context, userEmail, subject, message string) error {
	if s.coachTo == "" {
		return fmt.Errorf("COACH_EMAIL is not configured")
	}

	body := fmt.Sprintf(
		"<h2>New coach message</h2><p><strong>From:</strong> %s</p><p><strong>Subject:</strong> %s</p><p>%s</p>"+
			"<p><a href=%q>Open the coach inbox</a></p>",
		html.EscapeString(userEmail),
		html.EscapeString(subject),
		html.EscapeString(message),
		s.siteURL+"/coach/inbox",
	)

	_, err := s.mailer.Send(ctx, mail.Message{
		To:      s.coachTo,
		Subject: "[Mind180] " + subject,
		HTML:    body,
	})
	metrics.ObserveProviderCall("mail", err)
	return err
}

// UserNotifyRecord is the row payload the database webhook posts when a
// coach reply is recorded.
type UserNotifyRecord struct {
	UserEmail  string `json:"user_email"`
	UserName   string `json:"user_name"`
	Subject    string `json:"subject"`
	CoachReply string `json:"coach_reply"`
}

// NotifyUser emails a user that their coach replied. Success means the
// provider accepted the send; no delivery receipt is stored.
func (s *Service) NotifyUser(ctx context.Context, rec UserNotifyRecord) (string, error) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your coach replied to <strong>%s</strong>:</p><blockquote>%s</blockquote>"+
			"<p><a href=%q>Read the full reply</a></p>",
		html.EscapeString(rec.UserName),
		html.EscapeString(rec.Subject),
		html.EscapeString(rec.CoachReply),
		s.siteURL+"/coach",
	)

	id, err := s.mailer.Send(ctx, mail.Message{
		To:      rec.UserEmail,
		Subject: "Your coach replied: " + rec.Subject,
		HTML:    body,
	})
	metrics.ObserveProviderCall("mail", err)
	return id, err
}

// SendMail is the raw passthrough used by the welcome-mail flow.
func (s *Service) SendMail(ctx context.Context, to, subject, htmlBody string) (string, error) {
	id, err := s.mailer.Send(ctx, mail.Message{To: to, Subject: subject, HTML: htmlBody})
	metrics.ObserveProviderCall("mail", err)
	return id, err
}

// CreateInvite records a circle invite owned by the coach session.
func (s *Service) CreateInvite(ctx context.Context, coachID, title, description, accessLink string, sessionDate time.Time) (*coachsupabase.CircleInvite, error) {
	inv := &coachsupabase.CircleInvite{
		Title:       title,
		Description: description,
		SessionDate: sessionDate,
		AccessLink:  accessLink,
		CreatedBy:   coachID,
	}
	if err := s.db.CreateInvite(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvites lists all circle invites.
func (s *Service) ListInvites(ctx context.Context) ([]coachsupabase.CircleInvite, error) {
	return s.db.ListInvites(ctx)
}

// DeleteInvite removes a circle invite.
func (s *Service) DeleteInvite(ctx context.Context, id string) error {
	return s.db.DeleteInvite(ctx, id)
}
