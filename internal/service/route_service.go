package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"hk-explorer-be/internal/constant"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/tools"
	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/metrics"
)

// RouteTools are the tools offered while planning a route.
var RouteTools = []string{tools.GetChallenges, tools.GetUserProfile, tools.GetActiveEvents}

// ExplorerCatalog is the read side used to ground model output.
type ExplorerCatalog interface {
	GetChallenges(ctx context.Context, challengeType, difficulty string) ([]tools.Challenge, error)
	GetUserProfile(ctx context.Context, userId string) (*tools.UserProfile, error)
}

type IRouteService interface {
	GenerateRoute(ctx context.Context, req *dto.GenerateRouteRequest) (*dto.GenerateRouteResponse, error)
}

var routeSchema = &llm.Schema{
	Name: "challenge_route",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"route": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"challengeId":      map[string]any{"type": "string"},
						"title":            map[string]any{"type": "string"},
						"reason":           map[string]any{"type": "string"},
						"estimatedMinutes": map[string]any{"type": "number"},
						"order":            map[string]any{"type": "number"},
					},
					"required": []string{"challengeId", "title", "reason", "estimatedMinutes", "order"},
				},
			},
			"summary":               map[string]any{"type": "string"},
			"totalEstimatedMinutes": map[string]any{"type": "number"},
		},
		"required": []string{"route", "summary", "totalEstimatedMinutes"},
	},
}

type rawRoute struct {
	Route []struct {
		ChallengeId      string   `json:"challengeId"`
		Title            string   `json:"title"`
		Reason           string   `json:"reason"`
		EstimatedMinutes *float64 `json:"estimatedMinutes"`
		Order            *float64 `json:"order"`
	} `json:"route" validate:"required"`
	Summary string `json:"summary"`
}

type routeService struct {
	runner  *llm.Runner
	catalog ExplorerCatalog
	box     llm.Toolbox
	logger  logger.ILogger
	metrics *metrics.Metrics
}

func NewRouteService(runner *llm.Runner, catalog ExplorerCatalog, box llm.Toolbox, log logger.ILogger, m *metrics.Metrics) IRouteService {
	return &routeService{runner: runner, catalog: catalog, box: box, logger: log, metrics: m}
}

func routeFallback() *dto.GenerateRouteResponse {
	return &dto.GenerateRouteResponse{Route: []dto.RouteItem{}, Summary: constant.RouteFallbackSummary}
}

func (s *routeService) GenerateRoute(ctx context.Context, req *dto.GenerateRouteRequest) (*dto.GenerateRouteResponse, error) {
	start := time.Now()

	fitness := req.FitnessLevel
	if fitness == "" {
		fitness = constant.DefaultFitnessLevel
	}
	groupSize := req.GroupSize
	if groupSize <= 0 {
		groupSize = 1
	}
	prompt := fmt.Sprintf(constant.RoutePrompt, strings.Join(req.Interests, ", "), req.AvailableHours, fitness, groupSize, req.UserId)

	resp, err := s.runner.Run(ctx, &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:   routeSchema,
	}, s.box, llm.WithTemperature(0.4))
	if errors.Is(err, llm.ErrToolLoopExhausted) {
		s.logger.Warn("RouteService", "tool loop exhausted, using fallback", map[string]interface{}{"error": err})
		s.metrics.ObserveFlow("generate_route", metrics.OutcomeFallback, start)
		return routeFallback(), nil
	}
	if err != nil {
		s.metrics.ObserveFlow("generate_route", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("generate route", err)
	}

	var raw rawRoute
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		s.logger.Warn("RouteService", "unparseable route, using fallback", map[string]interface{}{"error": err})
		s.metrics.ObserveFlow("generate_route", metrics.OutcomeFallback, start)
		return routeFallback(), nil
	}

	catalog, err := s.catalog.GetChallenges(ctx, "", "")
	if err != nil {
		s.metrics.ObserveFlow("generate_route", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("generate route catalog", err)
	}
	profile, err := s.catalog.GetUserProfile(ctx, req.UserId)
	if err != nil {
		s.metrics.ObserveFlow("generate_route", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("generate route profile", err)
	}

	out := groundRoute(raw, catalog, profile)
	s.logger.Info("RouteService", "route generated", map[string]interface{}{
		"user_id":  req.UserId,
		"proposed": len(raw.Route),
		"kept":     len(out.Route),
		"minutes":  out.TotalEstimatedMinutes,
	})
	s.metrics.ObserveFlow("generate_route", metrics.OutcomeOK, start)
	return out, nil
}

// groundRoute keeps stops that exist and that the user has not completed,
// in the model's order, renumbered from 1. The total is recomputed.
func groundRoute(raw rawRoute, catalog []tools.Challenge, profile *tools.UserProfile) *dto.GenerateRouteResponse {
	byID := make(map[string]tools.Challenge, len(catalog))
	for _, c := range catalog {
		byID[c.Id] = c
	}
	completed := map[string]bool{}
	if profile != nil {
		for _, id := range profile.CompletedChlg {
			completed[id] = true
		}
	}

	stops := raw.Route
	// Missing order sorts last; ties keep the model's listing order.
	orderOf := func(i int) float64 {
		if stops[i].Order == nil {
			return math.MaxFloat64
		}
		return *stops[i].Order
	}
	idx := make([]int, len(stops))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return orderOf(idx[a]) < orderOf(idx[b]) })

	out := &dto.GenerateRouteResponse{Route: []dto.RouteItem{}, Summary: strings.TrimSpace(raw.Summary)}
	seen := map[string]bool{}
	for _, i := range idx {
		stop := stops[i]
		c, ok := byID[stop.ChallengeId]
		if !ok || seen[c.Id] || completed[c.Id] {
			continue
		}
		seen[c.Id] = true

		minutes := 0
		if stop.EstimatedMinutes != nil && *stop.EstimatedMinutes > 0 {
			minutes = int(math.Round(*stop.EstimatedMinutes))
		} else if m, ok := entity.DurationMinutes(c.ExpectedDuration); ok {
			minutes = m
		}

		out.Route = append(out.Route, dto.RouteItem{
			ChallengeId:      c.Id,
			Title:            c.Title,
			Reason:           strings.TrimSpace(stop.Reason),
			EstimatedMinutes: minutes,
			Order:            len(out.Route) + 1,
		})
		out.TotalEstimatedMinutes += minutes
	}
	if out.Summary == "" && len(out.Route) == 0 {
		out.Summary = constant.RouteFallbackSummary
	}
	return out
}
