package service

import (
	"context"
	"time"

	"hk-explorer-be/internal/constant"
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/pkg/agent"
	"hk-explorer-be/pkg/metrics"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	planner    *agent.Planner
	researcher *agent.Researcher
	guide      *agent.Guide
	logger     logger.ILogger
	metrics    *metrics.Metrics
}

func NewChatService(
	planner *agent.Planner,
	researcher *agent.Researcher,
	guide *agent.Guide,
	log logger.ILogger,
	m *metrics.Metrics,
) IChatService {
	return &chatService{
		planner:    planner,
		researcher: researcher,
		guide:      guide,
		logger:     log,
		metrics:    m,
	}
}

// Chat answers one message. Mode guide runs the single tool-augmented stage;
// mode bedrock runs planner, research and narration in order. A failed stage
// fails the turn; there is no fallback to the other mode.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()
	mode := req.Mode
	if mode == "" {
		mode = constant.ChatModeGuide
	}
	history := toConversation(req.History)

	var (
		res *dto.ChatResponse
		err error
	)
	switch mode {
	case constant.ChatModeBedrock:
		res, err = s.staged(ctx, history, req.Message)
	default:
		var text string
		text, err = s.guide.Converse(ctx, history, req.Message, req.UserId)
		res = &dto.ChatResponse{Response: text}
	}

	if err != nil {
		s.logger.Error("ChatService", "chat turn failed", map[string]interface{}{
			"mode":  mode,
			"error": err,
		})
		s.metrics.ObserveFlow("chat_"+mode, metrics.OutcomeError, start)
		return nil, serverutils.Upstream("chat", err)
	}

	s.metrics.ObserveFlow("chat_"+mode, metrics.OutcomeOK, start)
	return res, nil
}

func (s *chatService) staged(ctx context.Context, history []agent.ConversationTurn, message string) (*dto.ChatResponse, error) {
	if agent.IsGreeting(message) {
		s.logger.Debug("ChatService", "greeting shortcut", nil)
		text, err := s.guide.Greet(ctx, message)
		if err != nil {
			return nil, err
		}
		return &dto.ChatResponse{Response: text}, nil
	}

	prefs, err := s.planner.Extract(ctx, message)
	if err != nil {
		return nil, err
	}

	shortlist, err := s.researcher.Research(ctx, prefs)
	if err != nil {
		return nil, err
	}

	text, err := s.guide.Narrate(ctx, history, message, shortlist)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "staged answer ready", map[string]interface{}{
		"interests": prefs.Interests,
		"stops":     len(shortlist.Picks),
	})
	return &dto.ChatResponse{Response: text, Route: routeFromShortlist(shortlist)}, nil
}

func toConversation(turns []dto.ChatTurn) []agent.ConversationTurn {
	out := make([]agent.ConversationTurn, len(turns))
	for i, t := range turns {
		out[i] = agent.ConversationTurn{Role: t.Role, Content: t.Content}
	}
	return out
}

func routeFromShortlist(s agent.Shortlist) []dto.RouteItem {
	route := make([]dto.RouteItem, 0, len(s.Picks))
	for i, p := range s.Picks {
		item := dto.RouteItem{
			ChallengeId: p.ChallengeId,
			Title:       p.Title,
			Reason:      p.Reason,
			Order:       i + 1,
		}
		if p.EstimatedMinutes != nil {
			item.EstimatedMinutes = *p.EstimatedMinutes
		}
		route = append(route, item)
	}
	return route
}
