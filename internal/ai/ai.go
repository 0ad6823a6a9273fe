// Package ai provides clients for the text-generation providers backing
// the coaching and reflection features.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Chat roles used across the service.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message exchange unit in a transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client generates a completion for a persona instruction plus transcript.
// Implementations make a single best-effort call with no retry.
type Client interface {
	Complete(ctx context.Context, system string, turns []Turn) (string, error)
}

// ErrMissingKey indicates the provider API key is not configured.
var ErrMissingKey = errors.New("Missing AI Key")

// ProviderError is a non-2xx response from a text-generation provider.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.Status, e.Body)
}

// FriendlyMessage maps a provider failure to user-facing text. Known
// status codes get a specific message; everything else a generic one.
func FriendlyMessage(err error) string {
	if errors.Is(err, ErrMissingKey) {
		return "The AI coach is not configured yet. Please try again later."
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "The AI coach could not be reached (access denied). Please try again later."
		case http.StatusTooManyRequests:
			return "The AI coach is busy right now. Please try again in a moment."
		}
	}
	return fmt.Sprintf("I'm having trouble responding right now (%s). Please try again.", shortDiagnostic(err))
}

func shortDiagnostic(err error) string {
	msg := err.Error()
	if len(msg) > 80 {
		msg = msg[:80]
	}
	return msg
}
