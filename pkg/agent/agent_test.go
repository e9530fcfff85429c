package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/tools"
	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/llm/llmtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCatalog struct {
	challenges []tools.Challenge
	events     []tools.WeeklyEvent
	err        error
}

func (f *fakeCatalog) GetChallenges(ctx context.Context, _, _ string) ([]tools.Challenge, error) {
	return f.challenges, f.err
}

func (f *fakeCatalog) GetActiveEvents(ctx context.Context) ([]tools.WeeklyEvent, error) {
	return f.events, nil
}

type nopBox struct{}

func (nopBox) Specs() []llm.ToolSpec { return []llm.ToolSpec{{Name: tools.GetChallenges}} }
func (nopBox) Call(context.Context, string, json.RawMessage) any {
	return []tools.Challenge{}
}

func catalog() *fakeCatalog {
	return &fakeCatalog{
		challenges: []tools.Challenge{
			{Id: "c1", Title: "Dim Sum at Tim Ho Wan", Type: "food", ExpectedDuration: "01:30:00"},
			{Id: "c2", Title: "Victoria Peak Sunset", Type: "photo", ExpectedDuration: "02:00:00"},
			{Id: "c3", Title: "Man Mo Temple", Type: "culture"},
		},
		events: []tools.WeeklyEvent{{Id: "e1", Description: "Foodie week", Multiplier: 2, TargetCategory: "food"}},
	}
}

var nop = logger.NewNopLogger()

func TestPlannerExtract(t *testing.T) {
	provider := llmtest.New(llmtest.Text("```json\n{\"available_time_hours\": 6, \"interests\": [\"Hiking\", \"food\", \"space travel\"], \"difficulty_preference\": \"hard\", \"group_size\": 3}\n```"))
	prefs, err := NewPlanner(provider, nop).Extract(context.Background(), "6 hours, hiking and food, 3 of us, hard")
	require.NoError(t, err)

	want := Preferences{AvailableTimeHours: 6, Interests: []string{"hiking", "food"}, DifficultyPreference: "hard", GroupSize: 3}
	if diff := cmp.Diff(want, prefs); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}

	req := provider.Requests()[0]
	require.NotNil(t, req.Schema)
	assert.Equal(t, "travel_preferences", req.Schema.Name)
	assert.Contains(t, req.Messages[0].Content, "hiking and food")
}

func TestPlannerFillsMissingFields(t *testing.T) {
	provider := llmtest.New(llmtest.Text(`{"interests":["nightlife"]}`))
	prefs, err := NewPlanner(provider, nop).Extract(context.Background(), "bars")
	require.NoError(t, err)
	assert.Equal(t, []string{"nightlife"}, prefs.Interests)
	assert.Equal(t, float64(DefaultAvailableHours), prefs.AvailableTimeHours)
	assert.Equal(t, DefaultDifficulty, prefs.DifficultyPreference)
	assert.Equal(t, DefaultGroupSize, prefs.GroupSize)
}

func TestPlannerMalformedFallsBack(t *testing.T) {
	provider := llmtest.New(llmtest.Text("I think they want food!"))
	prefs, err := NewPlanner(provider, nop).Extract(context.Background(), "food")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPlannerUpstreamError(t *testing.T) {
	provider := llmtest.New(llmtest.Fail(errors.New("503")))
	_, err := NewPlanner(provider, nop).Extract(context.Background(), "food")
	assert.Error(t, err)
}

func TestResearchGroundsPicks(t *testing.T) {
	provider := llmtest.New(llmtest.JSON(map[string]any{
		"selected_challenges": []map[string]any{
			{"challengeId": "c2", "title": "Peak (made up title)", "type": "hiking", "reason": "golden hour"},
			{"challengeId": "ghost", "title": "Imaginary Place", "reason": "does not exist"},
			{"challengeId": "c1", "title": "Dim Sum", "reason": "breakfast", "estimatedMinutes": 45.4},
			{"challengeId": "c2", "title": "dup", "reason": "dup"},
		},
		"route_summary": "Food then views",
	}))
	r := NewResearcher(llm.NewRunner(provider, 3), catalog(), nopBox{}, nop)

	got, err := r.Research(context.Background(), DefaultPreferences())
	require.NoError(t, err)

	require.Len(t, got.Picks, 2)
	assert.Equal(t, "c2", got.Picks[0].ChallengeId)
	assert.Equal(t, "Victoria Peak Sunset", got.Picks[0].Title)
	assert.Equal(t, "photo", got.Picks[0].Type)
	require.NotNil(t, got.Picks[0].EstimatedMinutes)
	assert.Equal(t, 120, *got.Picks[0].EstimatedMinutes)
	assert.Equal(t, 45, *got.Picks[1].EstimatedMinutes)
	assert.Equal(t, "Food then views", got.Summary)

	req := provider.Requests()[0]
	assert.Equal(t, "research_shortlist", req.Schema.Name)
	assert.Contains(t, req.Messages[0].Content, `"id":"c3"`)
	assert.Contains(t, req.Messages[0].Content, "Foodie week")
	assert.NotEmpty(t, req.Tools)
}

func TestResearchMalformedFallsBack(t *testing.T) {
	provider := llmtest.New(llmtest.Text("Here are some ideas: go eat."))
	r := NewResearcher(llm.NewRunner(provider, 3), catalog(), nopBox{}, nop)

	got, err := r.Research(context.Background(), DefaultPreferences())
	require.NoError(t, err)
	assert.Empty(t, got.Picks)
	assert.Equal(t, NoMatchSummary, got.Summary)
}

func TestResearchToolLoopExhaustedFallsBack(t *testing.T) {
	provider := llmtest.New().Always(llmtest.Tool("x", tools.GetChallenges, map[string]any{}))
	r := NewResearcher(llm.NewRunner(provider, 2), catalog(), nopBox{}, nop)

	got, err := r.Research(context.Background(), DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, Fallback(), got)
}

func TestResearchPrefetchError(t *testing.T) {
	provider := llmtest.New()
	c := catalog()
	c.err = errors.New("db down")
	r := NewResearcher(llm.NewRunner(provider, 2), c, nopBox{}, nop)

	_, err := r.Research(context.Background(), DefaultPreferences())
	assert.Error(t, err)
	assert.Equal(t, 0, provider.Calls())
}

func TestResearchCapsPicks(t *testing.T) {
	c := &fakeCatalog{}
	var selected []map[string]any
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		c.challenges = append(c.challenges, tools.Challenge{Id: id, Title: id})
		selected = append(selected, map[string]any{"challengeId": id, "reason": "r"})
	}
	provider := llmtest.New(llmtest.JSON(map[string]any{"selected_challenges": selected, "route_summary": "s"}))

	got, err := NewResearcher(llm.NewRunner(provider, 1), c, nopBox{}, nop).Research(context.Background(), DefaultPreferences())
	require.NoError(t, err)
	assert.Len(t, got.Picks, MaxPicks)
}

func TestIsGreeting(t *testing.T) {
	for _, m := range []string{"hi", " Hello ", "HEYA", "sup"} {
		assert.True(t, IsGreeting(m), m)
	}
	for _, m := range []string{"hi there", "plan my day", ""} {
		assert.False(t, IsGreeting(m), m)
	}
}

func TestGuideNarrateUsesLastSixTurns(t *testing.T) {
	provider := llmtest.New(llmtest.Text("  1. Peak!  "))
	g := NewGuide(llm.NewRunner(provider, 2), nopBox{}, nop)

	var history []ConversationTurn
	for i := 0; i < 8; i++ {
		history = append(history, ConversationTurn{Role: "user", Content: string(rune('a' + i))})
	}
	text, err := g.Narrate(context.Background(), history, "plan it", Shortlist{
		Picks:   []Pick{{ChallengeId: "c2", Title: "Victoria Peak Sunset", Reason: "views"}},
		Summary: "short",
	})
	require.NoError(t, err)
	assert.Equal(t, "1. Peak!", text)

	req := provider.Requests()[0]
	assert.Empty(t, req.Tools)
	prompt := req.Messages[0].Content
	assert.NotContains(t, prompt, "user: a\n")
	assert.NotContains(t, prompt, "user: b\n")
	assert.Contains(t, prompt, "user: c")
	assert.Contains(t, prompt, "user: h")
	assert.Contains(t, prompt, "Victoria Peak Sunset: recommended because views")
}

func TestGuideConverseOffersTools(t *testing.T) {
	provider := llmtest.New(llmtest.Text("Let's go!"))
	g := NewGuide(llm.NewRunner(provider, 2), nopBox{}, nop)

	history := []ConversationTurn{{Role: "user", Content: "hi"}, {Role: "model", Content: "hello!"}}
	text, err := g.Converse(context.Background(), history, "what's near me?", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Let's go!", text)

	req := provider.Requests()[0]
	assert.Len(t, req.Tools, 1)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, req.Messages[1].Role)
	assert.Contains(t, req.System, `"u1"`)
	assert.Len(t, history, 2)
}

func TestGuideGreet(t *testing.T) {
	provider := llmtest.New(llmtest.Text("Nei hou! What do you fancy?"))
	text, err := NewGuide(llm.NewRunner(provider, 2), nopBox{}, nop).Greet(context.Background(), "hey")
	require.NoError(t, err)
	assert.Contains(t, text, "Nei hou")
	assert.Contains(t, provider.Requests()[0].Messages[0].Content, "'hey'")
}
