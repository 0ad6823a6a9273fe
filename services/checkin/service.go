// Package checkin implements the coaching-submission flow: a daily
// check-in is sent to the AI provider with the coaching persona and the
// result is persisted alongside the inputs.
package checkin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
	"github.com/neomind180-byte/neomind180-sub000/internal/metrics"
	checkinsupabase "github.com/neomind180-byte/neomind180-sub000/services/checkin/supabase"
)

// Service generates and persists check-in coaching.
type Service struct {
	ai  ai.Client
	db  checkinsupabase.RepositoryInterface
	log zerolog.Logger
}

// Config configures the check-in service.
type Config struct {
	AI  ai.Client
	DB  checkinsupabase.RepositoryInterface
	Log zerolog.Logger
}

// New creates the check-in service.
func New(cfg Config) (*Service, error) {
	if cfg.AI == nil {
		return nil, fmt.Errorf("checkin: AI client is required")
	}
	if cfg.DB == nil {
		return nil, fmt.Errorf("checkin: repository is required")
	}
	return &Service{ai: cfg.AI, db: cfg.DB, log: cfg.Log}, nil
}

// SubmitRequest carries one check-in submission. Field validation happens
// in the handler; the service assumes feeling and intention are non-empty.
type SubmitRequest struct {
	UserID    string
	Mood      int
	Feeling   string
	Intention string
}

// Submit generates the coaching text and inserts the check-in row. The
// generation happens first; when the insert fails the generated text is
// discarded and the error surfaces to the caller.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	prompt := fmt.Sprintf("Mood score: %d/10\nFeeling: %s\nIntention: %s", req.Mood, req.Feeling, req.Intention)

	coaching, err := s.ai.Complete(ctx, ai.CoachingPersona, []ai.Turn{{Role: ai.RoleUser, Content: prompt}})
	metrics.ObserveProviderCall("ai", err)
	if err != nil {
		return "", err
	}

	row := &checkinsupabase.CheckIn{
		UserID:    req.UserID,
		Mood:      req.Mood,
		Feeling:   req.Feeling,
		Intention: req.Intention,
		Coaching:  coaching,
	}
	if err := s.db.CreateCheckIn(ctx, row); err != nil {
		s.log.Error().Err(err).Str("user_id", req.UserID).Msg("check-in insert failed after generation")
		return "", err
	}

	return coaching, nil
}

// History lists a user's check-ins, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]checkinsupabase.CheckIn, error) {
	return s.db.ListCheckIns(ctx, userID)
}

// ShiftRequest carries one "be enough" flow completion.
type ShiftRequest struct {
	UserID   string
	Thought  string
	Evidence string
	Emotion  string
}

// Shift generates an alternative perspective and persists the flow result.
func (s *Service) Shift(ctx context.Context, req ShiftRequest) (*checkinsupabase.Shift, error) {
	prompt := fmt.Sprintf("Thought: %s\nEvidence: %s\nEmotion: %s", req.Thought, req.Evidence, req.Emotion)

	perspective, err := s.ai.Complete(ctx, ai.ShiftPersona, []ai.Turn{{Role: ai.RoleUser, Content: prompt}})
	metrics.ObserveProviderCall("ai", err)
	if err != nil {
		return nil, err
	}

	row := &checkinsupabase.Shift{
		UserID:      req.UserID,
		Thought:     req.Thought,
		Evidence:    req.Evidence,
		Emotion:     req.Emotion,
		Perspective: perspective,
	}
	if err := s.db.CreateShift(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}
