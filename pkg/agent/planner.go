package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/pkg/llm"
)

var knownInterests = map[string]bool{
	"food": true, "photo": true, "culture": true,
	"hiking": true, "nightlife": true, "activity": true,
}

var preferencesSchema = &llm.Schema{
	Name: "travel_preferences",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"available_time_hours":  map[string]any{"type": "number"},
			"interests":             map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": []string{"food", "photo", "culture", "hiking", "nightlife", "activity"}}},
			"difficulty_preference": map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard", "any"}},
			"group_size":            map[string]any{"type": "number"},
			"special_requests":      map[string]any{"type": "string"},
		},
		"required": []string{"available_time_hours", "interests", "difficulty_preference", "group_size"},
	},
}

// rawPreferences mirrors the model output; pointers tell absent from zero.
type rawPreferences struct {
	AvailableTimeHours   *float64 `json:"available_time_hours"`
	Interests            []string `json:"interests"`
	DifficultyPreference *string  `json:"difficulty_preference"`
	GroupSize            *float64 `json:"group_size"`
	SpecialRequests      *string  `json:"special_requests"`
}

type Planner struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewPlanner(provider llm.LLMProvider, log logger.ILogger) *Planner {
	return &Planner{provider: provider, logger: log}
}

// Extract turns a message into preferences. Unparseable output falls back to
// DefaultPreferences; only generation failures are returned as errors.
func (p *Planner) Extract(ctx context.Context, message string) (Preferences, error) {
	resp, err := p.provider.Complete(ctx, &llm.Request{
		System:   plannerPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf("Extract travel preferences from this message: '%s'", message)}},
		Schema:   preferencesSchema,
	}, llm.WithTemperature(0.2))
	if err != nil {
		return Preferences{}, fmt.Errorf("planner generation: %w", err)
	}

	var raw rawPreferences
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		p.logger.Warn("Planner", "unparseable preferences, using defaults", map[string]interface{}{"error": err})
		return DefaultPreferences(), nil
	}
	return normalize(raw), nil
}

func normalize(raw rawPreferences) Preferences {
	out := DefaultPreferences()

	if raw.AvailableTimeHours != nil && *raw.AvailableTimeHours > 0 {
		out.AvailableTimeHours = math.Min(*raw.AvailableTimeHours, 24)
	}

	if raw.Interests != nil {
		interests := make([]string, 0, len(raw.Interests))
		seen := map[string]bool{}
		for _, i := range raw.Interests {
			i = strings.ToLower(strings.TrimSpace(i))
			if knownInterests[i] && !seen[i] {
				seen[i] = true
				interests = append(interests, i)
			}
		}
		if len(interests) > 0 {
			out.Interests = interests
		}
	}

	if raw.DifficultyPreference != nil {
		switch d := strings.ToLower(strings.TrimSpace(*raw.DifficultyPreference)); d {
		case "easy", "medium", "hard", "any":
			out.DifficultyPreference = d
		}
	}

	if raw.GroupSize != nil && *raw.GroupSize >= 1 {
		out.GroupSize = int(math.Round(*raw.GroupSize))
	}

	if raw.SpecialRequests != nil {
		out.SpecialRequests = strings.TrimSpace(*raw.SpecialRequests)
	}
	return out
}
