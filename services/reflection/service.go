// Package reflection implements the AI chat: each turn forwards the
// message and normalized history to the provider with the reflection
// persona and rewrites the stored transcript wholesale.
package reflection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
	"github.com/neomind180-byte/neomind180-sub000/internal/metrics"
	"github.com/neomind180-byte/neomind180-sub000/internal/navigation"
	reflectionsupabase "github.com/neomind180-byte/neomind180-sub000/services/reflection/supabase"
)

// ErrQuotaExceeded signals the tier's message allowance is used up.
var ErrQuotaExceeded = errors.New("message quota exceeded")

// Per-tier user-message allowances. Tier3 is unlimited.
const (
	quotaFree  = 10
	quotaTier2 = 50
)

// QuotaForTier returns the user-message allowance for a tier; -1 means
// unlimited.
func QuotaForTier(tier navigation.Tier) int {
	switch tier {
	case navigation.Tier2:
		return quotaTier2
	case navigation.Tier3:
		return -1
	default:
		return quotaFree
	}
}

// Turn is one chat message in API responses, with the send timestamp.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Service runs chat turns against the AI provider.
type Service struct {
	ai  ai.Client
	db  reflectionsupabase.RepositoryInterface
	log zerolog.Logger
}

// Config configures the reflection service.
type Config struct {
	AI  ai.Client
	DB  reflectionsupabase.RepositoryInterface
	Log zerolog.Logger
}

// New creates the reflection service.
func New(cfg Config) (*Service, error) {
	if cfg.AI == nil {
		return nil, fmt.Errorf("reflection: AI client is required")
	}
	return &Service{ai: cfg.AI, db: cfg.DB, log: cfg.Log}, nil
}

// SendTurn generates the assistant reply for a message plus history. When
// userID is set the stored transcript is rewritten with both new turns and
// the tier quota is enforced; anonymous turns are stateless pass-throughs.
func (s *Service) SendTurn(ctx context.Context, userID string, tier navigation.Tier, message string, history []ai.Turn) (*Turn, error) {
	var stored *reflectionsupabase.Reflection
	if userID != "" && s.db != nil {
		var err error
		stored, err = s.db.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if quota := QuotaForTier(tier); quota >= 0 {
			if countUserTurns(stored) >= quota {
				return nil, ErrQuotaExceeded
			}
		}
	}

	turns := NormalizeHistory(history)
	turns = append(turns, ai.Turn{Role: ai.RoleUser, Content: message})

	content, err := s.ai.Complete(ctx, ai.ReflectionPersona, turns)
	metrics.ObserveProviderCall("ai", err)
	if err != nil {
		return nil, err
	}

	reply := &Turn{Role: ai.RoleAssistant, Content: content, Timestamp: time.Now().UTC()}

	if userID != "" && s.db != nil {
		if stored == nil {
			stored = &reflectionsupabase.Reflection{UserID: userID}
		}
		stored.Messages = append(stored.Messages,
			ai.Turn{Role: ai.RoleUser, Content: message},
			ai.Turn{Role: ai.RoleAssistant, Content: content},
		)
		stored.LastMessage = content
		if err := s.db.Save(ctx, stored); err != nil {
			// The reply was already generated; surface the persistence
			// failure and discard it, matching the check-in flow.
			s.log.Error().Err(err).Str("user_id", userID).Msg("transcript save failed after generation")
			return nil, err
		}
	}

	return reply, nil
}

// Transcript returns the stored transcript for a user, or nil.
func (s *Service) Transcript(ctx context.Context, userID string) (*reflectionsupabase.Reflection, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.GetByUser(ctx, userID)
}

// countUserTurns counts user-authored turns in the stored transcript.
func countUserTurns(ref *reflectionsupabase.Reflection) int {
	if ref == nil {
		return 0
	}
	n := 0
	for _, t := range ref.Messages {
		if t.Role == ai.RoleUser {
			n++
		}
	}
	return n
}
