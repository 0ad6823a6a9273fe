package reflection

import (
	"strings"

	"github.com/neomind180-byte/neomind180-sub000/internal/ai"
)

// NormalizeHistory prepares a transcript for the provider. The provider
// requires the first entry to be user-authored, so leading assistant turns
// are dropped; unknown roles are relabelled as assistant. A history with
// no user turn at all normalizes to empty — the call then proceeds with
// only the new message.
func NormalizeHistory(history []ai.Turn) []ai.Turn {
	start := -1
	for i, t := range history {
		if t.Role == ai.RoleUser {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	out := make([]ai.Turn, 0, len(history)-start)
	for _, t := range history[start:] {
		role := t.Role
		if role != ai.RoleUser {
			role = ai.RoleAssistant
		}
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		out = append(out, ai.Turn{Role: role, Content: content})
	}
	return out
}
