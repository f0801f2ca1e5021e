package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Role tags a turn in a chat conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrUnknownRole = errors.New("ai: unknown history role")
	ErrEmptyText   = errors.New("ai: text is required")
)

// Turn is one role-tagged message sent to the completion service.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// HistoryEntry is a prior turn as the client sends it.
type HistoryEntry struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ParseRole maps a client-supplied type tag onto a Role.
// The web client labels model replies "ai"; that is accepted as assistant.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return RoleSystem, nil
	case "user":
		return RoleUser, nil
	case "assistant", "ai":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// BuildConversation returns the system persona turn, the history in
// original order, then the new user turn.
func BuildConversation(text string, history []HistoryEntry) ([]Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	turns := make([]Turn, 0, len(history)+2)
	turns = append(turns, Turn{Role: RoleSystem, Content: advisorSystemPrompt})

	for i, h := range history {
		role, err := ParseRole(h.Type)
		if err != nil {
			return nil, fmt.Errorf("history[%d]: %w", i, err)
		}
		turns = append(turns, Turn{Role: role, Content: h.Content})
	}

	turns = append(turns, Turn{Role: RoleUser, Content: text})
	return turns, nil
}
