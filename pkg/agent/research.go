package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/tools"
	"hk-explorer-be/pkg/llm"

	"golang.org/x/sync/errgroup"
)

// MaxPicks caps the shortlist length.
const MaxPicks = 6

// ResearchTools are the read-only tools the researcher may call.
var ResearchTools = []string{
	tools.GetChallenges,
	tools.SearchChallengesByArea,
	tools.GetActiveEvents,
	tools.GetChallengeParticipants,
}

var shortlistSchema = &llm.Schema{
	Name: "research_shortlist",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"selected_challenges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"challengeId":      map[string]any{"type": "string"},
						"title":            map[string]any{"type": "string"},
						"type":             map[string]any{"type": "string"},
						"reason":           map[string]any{"type": "string"},
						"estimatedMinutes": map[string]any{"type": "number"},
					},
					"required": []string{"challengeId", "reason"},
				},
			},
			"route_summary": map[string]any{"type": "string"},
		},
		"required": []string{"selected_challenges", "route_summary"},
	},
}

// Catalog is the read side the researcher prefetches from.
type Catalog interface {
	GetChallenges(ctx context.Context, challengeType, difficulty string) ([]tools.Challenge, error)
	GetActiveEvents(ctx context.Context) ([]tools.WeeklyEvent, error)
}

type rawShortlist struct {
	Selected []struct {
		ChallengeId      string   `json:"challengeId"`
		Title            string   `json:"title"`
		Type             string   `json:"type"`
		Reason           string   `json:"reason"`
		EstimatedMinutes *float64 `json:"estimatedMinutes"`
	} `json:"selected_challenges" validate:"required"`
	Summary string `json:"route_summary"`
}

type Researcher struct {
	runner  *llm.Runner
	catalog Catalog
	box     llm.Toolbox
	logger  logger.ILogger
}

func NewResearcher(runner *llm.Runner, catalog Catalog, box llm.Toolbox, log logger.ILogger) *Researcher {
	return &Researcher{runner: runner, catalog: catalog, box: box, logger: log}
}

// Fallback is the empty shortlist used when the model output is unusable.
func Fallback() Shortlist {
	return Shortlist{Picks: []Pick{}, Summary: NoMatchSummary}
}

// Research selects challenges for prefs. Every returned pick refers to a
// catalog challenge, with title and type taken from the catalog.
func (r *Researcher) Research(ctx context.Context, prefs Preferences) (Shortlist, error) {
	var (
		catalog []tools.Challenge
		active  []tools.WeeklyEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = r.catalog.GetChallenges(gctx, "", "")
		return err
	})
	g.Go(func() error {
		var err error
		active, err = r.catalog.GetActiveEvents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Shortlist{}, fmt.Errorf("research prefetch: %w", err)
	}

	if len(catalog) == 0 {
		r.logger.Warn("Researcher", "empty challenge catalog", nil)
		return Fallback(), nil
	}

	resp, err := r.runner.Run(ctx, &llm.Request{
		System:   researchPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: researchBrief(prefs, catalog, active)}},
		Schema:   shortlistSchema,
	}, r.box, llm.WithTemperature(0.4))
	if errors.Is(err, llm.ErrToolLoopExhausted) {
		r.logger.Warn("Researcher", "tool loop exhausted, using fallback", map[string]interface{}{"error": err})
		return Fallback(), nil
	}
	if err != nil {
		return Shortlist{}, fmt.Errorf("research generation: %w", err)
	}

	var raw rawShortlist
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		r.logger.Warn("Researcher", "unparseable shortlist, using fallback", map[string]interface{}{"error": err})
		return Fallback(), nil
	}

	out := ground(raw, catalog)
	r.logger.Info("Researcher", "shortlist ready", map[string]interface{}{
		"proposed": len(raw.Selected), "kept": len(out.Picks),
	})
	return out, nil
}

func ground(raw rawShortlist, catalog []tools.Challenge) Shortlist {
	byID := make(map[string]tools.Challenge, len(catalog))
	for _, c := range catalog {
		byID[c.Id] = c
	}

	out := Shortlist{Picks: []Pick{}, Summary: strings.TrimSpace(raw.Summary)}
	seen := map[string]bool{}
	for _, s := range raw.Selected {
		c, ok := byID[s.ChallengeId]
		if !ok || seen[s.ChallengeId] {
			continue
		}
		seen[s.ChallengeId] = true

		pick := Pick{
			ChallengeId: c.Id,
			Title:       c.Title,
			Type:        c.Type,
			Reason:      strings.TrimSpace(s.Reason),
		}
		if s.EstimatedMinutes != nil && *s.EstimatedMinutes > 0 {
			m := int(math.Round(*s.EstimatedMinutes))
			pick.EstimatedMinutes = &m
		} else if m, ok := entity.DurationMinutes(c.ExpectedDuration); ok {
			pick.EstimatedMinutes = &m
		}
		out.Picks = append(out.Picks, pick)
		if len(out.Picks) == MaxPicks {
			break
		}
	}
	return out
}

type catalogLine struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Difficulty string  `json:"difficulty"`
	Duration   string  `json:"duration,omitempty"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Joined     int     `json:"joined"`
}

func researchBrief(prefs Preferences, catalog []tools.Challenge, active []tools.WeeklyEvent) string {
	prefsJSON, _ := json.Marshal(prefs)

	var b strings.Builder
	fmt.Fprintf(&b, "Preferences: %s\n\n", prefsJSON)
	fmt.Fprintf(&b, "Select 3-6 challenges that best match the user's preferences. Consider:\n")
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(prefs.Interests, ", "))
	fmt.Fprintf(&b, "- Available time: %g hours\n", prefs.AvailableTimeHours)
	fmt.Fprintf(&b, "- Difficulty: %s\n", prefs.DifficultyPreference)
	fmt.Fprintf(&b, "- Group size: %d\n", prefs.GroupSize)
	if prefs.SpecialRequests != "" {
		fmt.Fprintf(&b, "- Special requests: %s\n", prefs.SpecialRequests)
	}

	b.WriteString("\nChallenge catalog (one JSON object per line):\n")
	for _, c := range catalog {
		line, _ := json.Marshal(catalogLine{
			Id: c.Id, Title: c.Title, Type: c.Type, Difficulty: c.Difficulty,
			Duration: c.ExpectedDuration, Lat: c.Latitude, Lng: c.Longitude, Joined: len(c.JoinedPeople),
		})
		b.Write(line)
		b.WriteByte('\n')
	}

	if len(active) > 0 {
		b.WriteString("\nActive weekly events:\n")
		for _, e := range active {
			fmt.Fprintf(&b, "- %s (x%g on %s, ends %s)\n", e.Description, e.Multiplier, e.TargetCategory, e.EndDate)
		}
	}
	return b.String()
}
