// Package agent implements the three conversational stages: preference
// extraction, candidate research and narration.
package agent

import (
	"strings"

	"hk-explorer-be/pkg/llm"
)

// ConversationTurn is one prior message supplied by the client.
type ConversationTurn struct {
	Role    string `json:"role" validate:"required,oneof=user model assistant"`
	Content string `json:"content"`
}

// Preferences is what the planner extracts from a free-text message.
type Preferences struct {
	AvailableTimeHours   float64  `json:"available_time_hours"`
	Interests            []string `json:"interests"`
	DifficultyPreference string   `json:"difficulty_preference"`
	GroupSize            int      `json:"group_size"`
	SpecialRequests      string   `json:"special_requests"`
}

const (
	DefaultAvailableHours = 4
	DefaultDifficulty     = "any"
	DefaultGroupSize      = 1
)

// DefaultPreferences is used when the planner output cannot be parsed.
func DefaultPreferences() Preferences {
	return Preferences{
		AvailableTimeHours:   DefaultAvailableHours,
		Interests:            []string{"food", "photo", "culture"},
		DifficultyPreference: DefaultDifficulty,
		GroupSize:            DefaultGroupSize,
	}
}

// Pick is one grounded shortlist entry.
type Pick struct {
	ChallengeId      string `json:"challengeId"`
	Title            string `json:"title"`
	Type             string `json:"type"`
	Reason           string `json:"reason"`
	EstimatedMinutes *int   `json:"estimatedMinutes,omitempty"`
}

// Shortlist is the research stage result.
type Shortlist struct {
	Picks   []Pick `json:"selected_challenges"`
	Summary string `json:"route_summary"`
}

// NoMatchSummary accompanies the empty fallback shortlist.
const NoMatchSummary = "Could not find matching challenges."

func toMessages(history []ConversationTurn) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	for _, h := range history {
		role := llm.RoleUser
		if h.Role == "model" || h.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: h.Content})
	}
	return out
}

func renderHistory(history []ConversationTurn, last int) string {
	if len(history) == 0 {
		return "Start of conversation."
	}
	if len(history) > last {
		history = history[len(history)-last:]
	}
	lines := make([]string, len(history))
	for i, h := range history {
		lines[i] = h.Role + ": " + h.Content
	}
	return strings.Join(lines, "\n")
}
