package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hk-explorer-be/internal/constant"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/tools"
	"hk-explorer-be/pkg/geo"
	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/metrics"
)

// BrowseTools are the tools offered while browsing locations.
var BrowseTools = []string{
	tools.GetChallenges,
	tools.GetChallengeParticipants,
	tools.SearchChallengesByArea,
	tools.GetActiveEvents,
}

type IBrowseService interface {
	BrowseLocations(ctx context.Context, req *dto.BrowseLocationsRequest) (*dto.BrowseLocationsResponse, error)
}

var browseSchema = &llm.Schema{
	Name: "location_search",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"challengeId":      map[string]any{"type": "string"},
						"title":            map[string]any{"type": "string"},
						"description":      map[string]any{"type": "string"},
						"type":             map[string]any{"type": "string"},
						"difficulty":       map[string]any{"type": "string"},
						"aiTip":            map[string]any{"type": "string"},
						"participantCount": map[string]any{"type": "number"},
						"distanceMeters":   map[string]any{"type": "number"},
					},
					"required": []string{"challengeId", "title", "description", "type", "difficulty", "aiTip", "participantCount"},
				},
			},
			"summary": map[string]any{"type": "string"},
		},
		"required": []string{"results", "summary"},
	},
}

type rawBrowse struct {
	Results []struct {
		ChallengeId string `json:"challengeId"`
		AiTip       string `json:"aiTip"`
	} `json:"results" validate:"required"`
	Summary string `json:"summary"`
}

type browseService struct {
	runner  *llm.Runner
	catalog ExplorerCatalog
	box     llm.Toolbox
	logger  logger.ILogger
	metrics *metrics.Metrics
}

func NewBrowseService(runner *llm.Runner, catalog ExplorerCatalog, box llm.Toolbox, log logger.ILogger, m *metrics.Metrics) IBrowseService {
	return &browseService{runner: runner, catalog: catalog, box: box, logger: log, metrics: m}
}

func browseFallback() *dto.BrowseLocationsResponse {
	return &dto.BrowseLocationsResponse{Results: []dto.BrowseResult{}, Summary: constant.BrowseFallbackSummary}
}

// userPosition is set only when both coordinates were supplied.
func userPosition(req *dto.BrowseLocationsRequest) (geo.Coordinate, bool) {
	if req.UserLatitude == nil || req.UserLongitude == nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: *req.UserLatitude, Longitude: *req.UserLongitude}, true
}

func browseContext(req *dto.BrowseLocationsRequest) string {
	var lines []string
	if q := strings.TrimSpace(req.Query); q != "" {
		lines = append(lines, fmt.Sprintf("User is searching for: %q", q))
	}
	if c := strings.TrimSpace(req.Category); c != "" {
		lines = append(lines, "Category filter: "+c)
	}
	if pos, ok := userPosition(req); ok {
		lines = append(lines, fmt.Sprintf("User is near: %g, %g", pos.Latitude, pos.Longitude))
		radius := float64(tools.DefaultSearchRadiusMeters)
		if req.RadiusMeters != nil {
			radius = *req.RadiusMeters
		}
		lines = append(lines, fmt.Sprintf("Search radius: %gm", radius))
	}
	if len(lines) == 0 {
		return "The user wants to see what is worth exploring."
	}
	return strings.Join(lines, "\n")
}

func (s *browseService) BrowseLocations(ctx context.Context, req *dto.BrowseLocationsRequest) (*dto.BrowseLocationsResponse, error) {
	start := time.Now()

	resp, err := s.runner.Run(ctx, &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf(constant.BrowsePrompt, browseContext(req))}},
		Schema:   browseSchema,
	}, s.box, llm.WithTemperature(0.5))
	if errors.Is(err, llm.ErrToolLoopExhausted) {
		s.logger.Warn("BrowseService", "tool loop exhausted, using fallback", map[string]interface{}{"error": err})
		s.metrics.ObserveFlow("browse_locations", metrics.OutcomeFallback, start)
		return browseFallback(), nil
	}
	if err != nil {
		s.metrics.ObserveFlow("browse_locations", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("browse locations", err)
	}

	var raw rawBrowse
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		s.logger.Warn("BrowseService", "unparseable search result, using fallback", map[string]interface{}{"error": err})
		s.metrics.ObserveFlow("browse_locations", metrics.OutcomeFallback, start)
		return browseFallback(), nil
	}

	catalog, err := s.catalog.GetChallenges(ctx, "", "")
	if err != nil {
		s.metrics.ObserveFlow("browse_locations", metrics.OutcomeError, start)
		return nil, serverutils.Upstream("browse locations catalog", err)
	}

	pos, located := userPosition(req)
	out := groundBrowse(raw, catalog, pos, located)
	s.metrics.ObserveFlow("browse_locations", metrics.OutcomeOK, start)
	s.logger.Info("BrowseService", "locations browsed", map[string]interface{}{
		"proposed": len(raw.Results),
		"kept":     len(out.Results),
	})
	return out, nil
}

// groundBrowse keeps results that exist, taking every record field from the
// store. Only the tip comes from the model.
func groundBrowse(raw rawBrowse, catalog []tools.Challenge, pos geo.Coordinate, located bool) *dto.BrowseLocationsResponse {
	byID := make(map[string]tools.Challenge, len(catalog))
	for _, c := range catalog {
		byID[c.Id] = c
	}

	out := &dto.BrowseLocationsResponse{Results: []dto.BrowseResult{}, Summary: strings.TrimSpace(raw.Summary)}
	seen := map[string]bool{}
	for _, r := range raw.Results {
		c, ok := byID[r.ChallengeId]
		if !ok || seen[c.Id] {
			continue
		}
		seen[c.Id] = true

		item := dto.BrowseResult{
			ChallengeId:      c.Id,
			Title:            c.Title,
			Description:      c.Description,
			Type:             c.Type,
			Difficulty:       c.Difficulty,
			AiTip:            strings.TrimSpace(r.AiTip),
			ParticipantCount: len(c.JoinedPeople),
		}
		if located && c.HasLocation {
			d := geo.RoundMeters(geo.Distance(pos, geo.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}))
			item.DistanceMeters = &d
		}
		out.Results = append(out.Results, item)
	}
	if out.Summary == "" && len(out.Results) == 0 {
		out.Summary = constant.BrowseFallbackSummary
	}
	return out
}
