// Package tools exposes the store to model-driven stages as a fixed set of
// named, schema-typed operations.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/repository/specification"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/pkg/events"
	"hk-explorer-be/pkg/geo"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultSearchRadiusMeters = 3000
	DefaultForumLimit         = 20
	MaxForumLimit             = 100
)

const module = "ToolGateway"

type Gateway struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
	validate   *validator.Validate
	now        func() time.Time
}

func NewGateway(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) *Gateway {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Gateway{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// GetChallenges lists challenges in catalog order, optionally filtered.
func (g *Gateway) GetChallenges(ctx context.Context, challengeType, difficulty string) ([]Challenge, error) {
	if strings.EqualFold(difficulty, "any") {
		difficulty = ""
	}
	uow := g.uowFactory.NewUnitOfWork(ctx)
	list, err := uow.ChallengeRepository().FindAll(ctx,
		specification.ByType{Type: strings.ToLower(strings.TrimSpace(challengeType))},
		specification.ByDifficulty{Difficulty: strings.ToLower(strings.TrimSpace(difficulty))},
	)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	out := make([]Challenge, 0, len(list))
	for _, c := range list {
		out = append(out, toChallenge(c))
	}
	return out, nil
}

// GetChallengeByID returns nil when the challenge does not exist.
func (g *Gateway) GetChallengeByID(ctx context.Context, challengeId string) (*Challenge, error) {
	c, err := g.uowFactory.NewUnitOfWork(ctx).ChallengeRepository().FindOne(ctx, specification.ByID{ID: challengeId})
	if err != nil {
		return nil, fmt.Errorf("get challenge %s: %w", challengeId, err)
	}
	if c == nil {
		return nil, nil
	}
	view := toChallenge(c)
	return &view, nil
}

// GetUserProfile returns nil when the user does not exist.
func (g *Gateway) GetUserProfile(ctx context.Context, userId string) (*UserProfile, error) {
	u, err := g.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByUID{UID: userId})
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userId, err)
	}
	if u == nil {
		return nil, nil
	}
	return toUserProfile(u), nil
}

// GetActiveEvents returns events whose end date is in the future.
func (g *Gateway) GetActiveEvents(ctx context.Context) ([]WeeklyEvent, error) {
	list, err := g.uowFactory.NewUnitOfWork(ctx).WeeklyEventRepository().FindAll(ctx, specification.EndsAfter{At: g.now()})
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	out := make([]WeeklyEvent, 0, len(list))
	for _, e := range list {
		out = append(out, toWeeklyEvent(e))
	}
	return out, nil
}

// GetChallengeParticipants never fails: a missing challenge or a store error
// yields an empty participant list.
func (g *Gateway) GetChallengeParticipants(ctx context.Context, challengeId string) Participants {
	out := Participants{ChallengeId: challengeId, ParticipantIds: []string{}}

	c, err := g.uowFactory.NewUnitOfWork(ctx).ChallengeRepository().FindOne(ctx, specification.ByID{ID: challengeId})
	if err != nil {
		g.logger.Warn(module, "participants lookup failed", map[string]interface{}{"challenge_id": challengeId, "error": err})
		return out
	}
	if c != nil && len(c.JoinedPeople) > 0 {
		out.ParticipantIds = c.JoinedPeople
	}
	out.Count = len(out.ParticipantIds)
	return out
}

// SearchChallengesByArea returns challenges within radiusMeters of the center,
// nearest first. Filtering uses the raw distance; the reported distance is rounded.
func (g *Gateway) SearchChallengesByArea(ctx context.Context, center geo.Coordinate, radiusMeters float64) ([]NearbyChallenge, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultSearchRadiusMeters
	}

	list, err := g.uowFactory.NewUnitOfWork(ctx).ChallengeRepository().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	type hit struct {
		view NearbyChallenge
		raw  float64
	}
	hits := make([]hit, 0, len(list))
	for _, c := range list {
		coords, ok := c.Coordinates()
		if !ok {
			continue
		}
		d := geo.Distance(center, coords)
		if d > radiusMeters {
			continue
		}
		hits = append(hits, hit{
			view: NearbyChallenge{Challenge: toChallenge(c), DistanceMeters: geo.RoundMeters(d)},
			raw:  d,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].raw < hits[j].raw })

	out := make([]NearbyChallenge, len(hits))
	for i, h := range hits {
		out[i] = h.view
	}
	return out, nil
}

// JoinChallenge adds the user to the challenge and the challenge to the user
// in one transaction. Failures are reported in the result, never as errors.
func (g *Gateway) JoinChallenge(ctx context.Context, userId, challengeId string) JoinResult {
	result, joined := g.join(ctx, userId, challengeId)
	if joined {
		evt := events.New(events.ChallengeJoined, map[string]interface{}{
			"userId":      userId,
			"challengeId": challengeId,
		})
		if err := g.publisher.Publish(ctx, evt); err != nil {
			g.logger.Warn(module, "failed to publish join event", map[string]interface{}{"error": err})
		}
	}
	return result
}

func (g *Gateway) join(ctx context.Context, userId, challengeId string) (JoinResult, bool) {
	fail := func(msg string, err error) (JoinResult, bool) {
		if err != nil {
			g.logger.Error(module, "joinChallenge failed", map[string]interface{}{
				"user_id": userId, "challenge_id": challengeId, "error": err,
			})
		}
		return JoinResult{Success: false, Message: msg}, false
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fail("Could not join the challenge right now.", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUID{UID: userId}, specification.ForUpdate{})
	if err != nil {
		return fail("Could not join the challenge right now.", err)
	}
	if user == nil {
		return fail("User not found.", nil)
	}

	challenge, err := uow.ChallengeRepository().FindOne(ctx, specification.ByID{ID: challengeId}, specification.ForUpdate{})
	if err != nil {
		return fail("Could not join the challenge right now.", err)
	}
	if challenge == nil {
		return fail("Challenge not found.", nil)
	}

	if user.HasCompleted(challengeId) {
		return fail("You have already completed this challenge.", nil)
	}
	if user.HasJoined(challengeId) && challenge.HasParticipant(userId) {
		return JoinResult{Success: true, Message: fmt.Sprintf("You have already joined %s.", challenge.Title)}, false
	}

	user.JoinedChallenges = entity.AddToSet(user.JoinedChallenges, challengeId)
	challenge.JoinedPeople = entity.AddToSet(challenge.JoinedPeople, userId)

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return fail("Could not join the challenge right now.", err)
	}
	if err := uow.ChallengeRepository().Update(ctx, challenge); err != nil {
		return fail("Could not join the challenge right now.", err)
	}
	if err := uow.Commit(); err != nil {
		return fail("Could not join the challenge right now.", err)
	}

	g.logger.Info(module, "user joined challenge", map[string]interface{}{"user_id": userId, "challenge_id": challengeId})
	return JoinResult{Success: true, Message: fmt.Sprintf("You joined %s!", challenge.Title)}, true
}

// GetForumMessages returns up to limit messages, newest first.
func (g *Gateway) GetForumMessages(ctx context.Context, challengeId string, limit int) ([]ForumMessage, error) {
	if limit <= 0 {
		limit = DefaultForumLimit
	}
	if limit > MaxForumLimit {
		limit = MaxForumLimit
	}

	list, err := g.uowFactory.NewUnitOfWork(ctx).ForumMessageRepository().FindAll(ctx,
		specification.ByChallengeID{ChallengeID: challengeId},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("list forum messages: %w", err)
	}
	out := make([]ForumMessage, 0, len(list))
	for _, m := range list {
		out = append(out, toForumMessage(m))
	}
	return out, nil
}

// PostForumMessage stores a message on a challenge's forum.
func (g *Gateway) PostForumMessage(ctx context.Context, in PostForumMessageInput) PostResult {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	challenge, err := uow.ChallengeRepository().FindOne(ctx, specification.ByID{ID: in.ChallengeId})
	if err != nil {
		g.logger.Error(module, "postForumMessage lookup failed", map[string]interface{}{"error": err})
		return PostResult{Success: false, Message: "Could not post the message right now."}
	}
	if challenge == nil {
		return PostResult{Success: false, Message: "Challenge not found."}
	}

	msg := &entity.ForumMessage{
		ChallengeId: in.ChallengeId,
		UserId:      in.UserId,
		UserName:    in.UserName,
		Text:        strings.TrimSpace(in.Text),
		CreatedAt:   g.now().UTC(),
	}
	if err := uow.ForumMessageRepository().Create(ctx, msg); err != nil {
		g.logger.Error(module, "postForumMessage insert failed", map[string]interface{}{"error": err})
		return PostResult{Success: false, Message: "Could not post the message right now."}
	}
	if err := g.publisher.Publish(ctx, ForumPostedEvent(msg)); err != nil {
		g.logger.Warn(module, "failed to publish forum event", map[string]interface{}{"error": err})
	}
	return PostResult{Success: true, MessageId: msg.Id, Message: "Message posted."}
}
