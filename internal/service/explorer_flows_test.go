package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hk-explorer-be/internal/constant"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/repository/repotest"
	"hk-explorer-be/internal/tools"
	"hk-explorer-be/pkg/agent"
	"hk-explorer-be/pkg/events"
	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/llm/llmtest"
	"hk-explorer-be/pkg/metrics"
)

var nop = logger.NewNopLogger()

// newCatalog seeds three challenges and a user who completed c3.
func newCatalog(t *testing.T) *tools.Gateway {
	t.Helper()
	f, _ := repotest.NewFactory(t)
	repotest.SeedChallenge(t, f, &entity.Challenge{
		Id: "c1", Title: "Dim Sum at Tim Ho Wan", Description: "Order the baked buns", Type: "food",
		Difficulty: "easy", ExpectedDuration: "01:30:00", Location: &peak, JoinedPeople: []string{"u2", "u3"},
	})
	repotest.SeedChallenge(t, f, &entity.Challenge{
		Id: "c2", Title: "Victoria Peak Sunset", Type: "photo", Difficulty: "medium", ExpectedDuration: "02:00:00",
	})
	repotest.SeedChallenge(t, f, &entity.Challenge{Id: "c3", Title: "Man Mo Temple", Type: "culture"})
	repotest.SeedUser(t, f, &entity.User{Uid: "u1", NameSurname: "Ada", CompletedChallenges: []string{"c3"}})
	return tools.NewGateway(f, &events.Recorder{}, nop)
}

func newChatService(t *testing.T, provider llm.LLMProvider) IChatService {
	t.Helper()
	g := newCatalog(t)
	runner := llm.NewRunner(provider, 3)
	return NewChatService(
		agent.NewPlanner(provider, nop),
		agent.NewResearcher(runner, g, g.Toolbox(agent.ResearchTools...), nop),
		agent.NewGuide(runner, g.Toolbox(tools.AllTools...), nop),
		nop,
		metrics.New(),
	)
}

func TestChatBedrockRoute(t *testing.T) {
	provider := llmtest.New(
		llmtest.JSON(map[string]any{"available_time_hours": 4, "interests": []string{"food", "photo"}}),
		llmtest.JSON(map[string]any{
			"selected_challenges": []map[string]any{
				{"challengeId": "c2", "reason": "Golden hour views"},
				{"challengeId": "c1", "reason": "Cheap and famous", "estimatedMinutes": 45},
				{"challengeId": "invented", "reason": "Does not exist"},
			},
			"route_summary": "Food then views",
		}),
		llmtest.Text("Start with the Peak, then grab dim sum."),
	)
	svc := newChatService(t, provider)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "4 hours, food and photos", Mode: constant.ChatModeBedrock})
	require.NoError(t, err)

	assert.Equal(t, "Start with the Peak, then grab dim sum.", res.Response)
	require.Len(t, res.Route, 2)
	assert.Equal(t, dto.RouteItem{ChallengeId: "c2", Title: "Victoria Peak Sunset", Reason: "Golden hour views", EstimatedMinutes: 120, Order: 1}, res.Route[0])
	assert.Equal(t, dto.RouteItem{ChallengeId: "c1", Title: "Dim Sum at Tim Ho Wan", Reason: "Cheap and famous", EstimatedMinutes: 45, Order: 2}, res.Route[1])
	assert.Equal(t, 3, provider.Calls())
}

func TestChatBedrockGreetingSkipsResearch(t *testing.T) {
	provider := llmtest.New(llmtest.Text("Hello! Ready to explore Hong Kong?"))
	svc := newChatService(t, provider)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "  Hey ", Mode: constant.ChatModeBedrock})
	require.NoError(t, err)
	assert.Equal(t, "Hello! Ready to explore Hong Kong?", res.Response)
	assert.Empty(t, res.Route)
	assert.Equal(t, 1, provider.Calls())
}

func TestChatGuideUsesTools(t *testing.T) {
	provider := llmtest.New(
		llmtest.Tool("call_1", tools.GetChallenges, map[string]any{"type": "food"}),
		llmtest.Text("Try Tim Ho Wan."),
	)
	svc := newChatService(t, provider)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "Where should I eat?", UserId: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Try Tim Ho Wan.", res.Response)
	assert.Nil(t, res.Route)

	reqs := provider.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].System, `"u1"`)
	last := reqs[1].Messages[len(reqs[1].Messages)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Contains(t, last.Content, "Dim Sum at Tim Ho Wan")
}

func TestChatUpstreamFailure(t *testing.T) {
	for _, mode := range []string{constant.ChatModeGuide, constant.ChatModeBedrock} {
		t.Run(mode, func(t *testing.T) {
			svc := newChatService(t, llmtest.New(llmtest.Fail(errors.New("quota exceeded"))))
			_, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "plan my day", Mode: mode})
			assert.ErrorIs(t, err, serverutils.ErrUpstreamUnavailable)
		})
	}
}

func newRouteService(t *testing.T, provider llm.LLMProvider, rounds int) IRouteService {
	t.Helper()
	g := newCatalog(t)
	return NewRouteService(llm.NewRunner(provider, rounds), g, g.Toolbox(RouteTools...), nop, metrics.New())
}

func TestGenerateRouteGroundsStops(t *testing.T) {
	provider := llmtest.New(llmtest.JSON(map[string]any{
		"route": []map[string]any{
			{"challengeId": "c2", "title": "Peak", "reason": "Views", "estimatedMinutes": 45, "order": 2},
			{"challengeId": "c1", "title": "Dim sum", "reason": "Lunch", "order": 1},
			{"challengeId": "c3", "title": "Temple", "reason": "Already done", "estimatedMinutes": 30, "order": 3},
			{"challengeId": "ghost", "title": "Made up", "reason": "n/a", "estimatedMinutes": 30, "order": 4},
			{"challengeId": "c1", "title": "Dim sum again", "reason": "dup", "estimatedMinutes": 30, "order": 5},
		},
		"summary":               "Eat, then climb",
		"totalEstimatedMinutes": 999,
	}))
	svc := newRouteService(t, provider, 3)

	res, err := svc.GenerateRoute(context.Background(), &dto.GenerateRouteRequest{
		UserId: "u1", Interests: []string{"food", "photo"}, AvailableHours: 4,
	})
	require.NoError(t, err)

	require.Len(t, res.Route, 2)
	assert.Equal(t, "c1", res.Route[0].ChallengeId)
	assert.Equal(t, "Dim Sum at Tim Ho Wan", res.Route[0].Title)
	assert.Equal(t, 90, res.Route[0].EstimatedMinutes)
	assert.Equal(t, 1, res.Route[0].Order)
	assert.Equal(t, "c2", res.Route[1].ChallengeId)
	assert.Equal(t, 45, res.Route[1].EstimatedMinutes)
	assert.Equal(t, 2, res.Route[1].Order)
	assert.Equal(t, 135, res.TotalEstimatedMinutes)
	assert.Equal(t, "Eat, then climb", res.Summary)

	prompt := provider.Requests()[0].Messages[0].Content
	assert.Contains(t, prompt, "food, photo")
	assert.Contains(t, prompt, constant.DefaultFitnessLevel)
	assert.Contains(t, prompt, "u1")
}

func TestGenerateRouteFallbacks(t *testing.T) {
	req := &dto.GenerateRouteRequest{UserId: "u1", Interests: []string{"food"}, AvailableHours: 2}

	t.Run("malformed", func(t *testing.T) {
		svc := newRouteService(t, llmtest.New(llmtest.Text("I would suggest the Peak.")), 3)
		res, err := svc.GenerateRoute(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, res.Route)
		assert.Equal(t, constant.RouteFallbackSummary, res.Summary)
	})

	t.Run("tool loop exhausted", func(t *testing.T) {
		provider := llmtest.New().Always(llmtest.Tool("call", tools.GetChallenges, map[string]any{}))
		svc := newRouteService(t, provider, 1)
		res, err := svc.GenerateRoute(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, res.Route)
		assert.Equal(t, constant.RouteFallbackSummary, res.Summary)
	})

	t.Run("upstream", func(t *testing.T) {
		svc := newRouteService(t, llmtest.New(llmtest.Fail(errors.New("timeout"))), 3)
		_, err := svc.GenerateRoute(context.Background(), req)
		assert.ErrorIs(t, err, serverutils.ErrUpstreamUnavailable)
	})
}

func newBrowseService(t *testing.T, provider llm.LLMProvider) IBrowseService {
	t.Helper()
	g := newCatalog(t)
	return NewBrowseService(llm.NewRunner(provider, 3), g, g.Toolbox(BrowseTools...), nop, metrics.New())
}

func TestBrowseLocationsGroundsResults(t *testing.T) {
	provider := llmtest.New(llmtest.JSON(map[string]any{
		"results": []map[string]any{
			{"challengeId": "c1", "title": "wrong title", "aiTip": " Go before noon ", "participantCount": 99},
			{"challengeId": "c2", "aiTip": "Bring a tripod"},
			{"challengeId": "nope", "aiTip": "?"},
		},
		"summary": "Two good picks",
	}))
	svc := newBrowseService(t, provider)

	lat := peak.Latitude + 100/metersPerDegree
	lon := peak.Longitude
	res, err := svc.BrowseLocations(context.Background(), &dto.BrowseLocationsRequest{
		Query: "dim sum", UserLatitude: &lat, UserLongitude: &lon,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	first := res.Results[0]
	assert.Equal(t, "Dim Sum at Tim Ho Wan", first.Title)
	assert.Equal(t, "Order the baked buns", first.Description)
	assert.Equal(t, "Go before noon", first.AiTip)
	assert.Equal(t, 2, first.ParticipantCount)
	require.NotNil(t, first.DistanceMeters)
	assert.Equal(t, 100, *first.DistanceMeters)
	assert.Nil(t, res.Results[1].DistanceMeters)
	assert.Equal(t, "Two good picks", res.Summary)

	prompt := provider.Requests()[0].Messages[0].Content
	assert.Contains(t, prompt, `"dim sum"`)
	assert.Contains(t, prompt, "Search radius: 3000m")
}

func TestBrowseContext(t *testing.T) {
	lat := 22.3
	assert.Equal(t, "The user wants to see what is worth exploring.", browseContext(&dto.BrowseLocationsRequest{}))

	half := browseContext(&dto.BrowseLocationsRequest{Category: "food", UserLatitude: &lat})
	assert.Contains(t, half, "Category filter: food")
	assert.NotContains(t, half, "User is near")

	radius := 800.0
	lon := 114.1
	full := browseContext(&dto.BrowseLocationsRequest{UserLatitude: &lat, UserLongitude: &lon, RadiusMeters: &radius})
	assert.Contains(t, full, "User is near: 22.3, 114.1")
	assert.Contains(t, full, "Search radius: 800m")
}

func TestBrowseLocationsFallback(t *testing.T) {
	svc := newBrowseService(t, llmtest.New(llmtest.Text("no idea")))
	res, err := svc.BrowseLocations(context.Background(), &dto.BrowseLocationsRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Equal(t, constant.BrowseFallbackSummary, res.Summary)
}

