package service

import (
	"context"
	"fmt"
	"time"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/repository/specification"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/internal/tools"
	"hk-explorer-be/pkg/events"
	pktNats "hk-explorer-be/pkg/nats"
)

const (
	ActivitySubject = pktNats.SubjectPrefix + "challenge.>"
	activityDurable = "forum-activity"

	ActivityAuthorId   = "system"
	ActivityAuthorName = "HK Explorer"
)

// EventSubscriber is the consuming side of the event bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// IActivityService announces joins and completions on each challenge forum.
type IActivityService interface {
	Start(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type activityService struct {
	subscriber EventSubscriber
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

// NewActivityService builds the forum announcer. publisher receives a
// forum.posted event for every announcement it stores.
func NewActivityService(subscriber EventSubscriber, uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IActivityService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &activityService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
		now:        time.Now,
	}
}

func (s *activityService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, ActivitySubject, activityDurable, s.Handle); err != nil {
		return err
	}
	s.logger.Info("ActivityService", "listening for challenge activity", map[string]interface{}{"subject": ActivitySubject})
	return nil
}

// Handle posts one system message per join or completion. Other events are
// ignored. A returned error asks the bus to redeliver.
func (s *activityService) Handle(ctx context.Context, event events.Event) error {
	data := event.Payload()
	userId, _ := data["userId"].(string)
	challengeId, _ := data["challengeId"].(string)

	switch event.EventType() {
	case events.ChallengeJoined, events.ChallengeCompleted:
	default:
		return nil
	}
	if userId == "" || challengeId == "" {
		s.logger.Warn("ActivityService", "dropping event without ids", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUID{UID: userId})
	if err != nil {
		return fmt.Errorf("activity user lookup: %w", err)
	}
	name := "A traveler"
	if user != nil && user.NameSurname != "" {
		name = user.NameSurname
	}

	text := fmt.Sprintf("%s just joined this challenge!", name)
	if event.EventType() == events.ChallengeCompleted {
		text = fmt.Sprintf("%s completed this challenge and earned %d points!", name, intValue(data["pointsAwarded"]))
	}

	msg := &entity.ForumMessage{
		ChallengeId: challengeId,
		UserId:      ActivityAuthorId,
		UserName:    ActivityAuthorName,
		Text:        text,
		CreatedAt:   s.now().UTC(),
	}
	if err := uow.ForumMessageRepository().Create(ctx, msg); err != nil {
		return fmt.Errorf("activity forum post: %w", err)
	}
	if err := s.publisher.Publish(ctx, tools.ForumPostedEvent(msg)); err != nil {
		s.logger.Warn("ActivityService", "failed to publish forum event", map[string]interface{}{"error": err})
	}
	return nil
}

// intValue reads a number that may have been through JSON.
func intValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
