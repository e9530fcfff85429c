package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/repository/repotest"
	"hk-explorer-be/internal/repository/specification"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/pkg/events"
	pktNats "hk-explorer-be/pkg/nats"
)

type recordingSubscriber struct {
	subject, durable string
	handler          pktNats.EventHandler
}

func (r *recordingSubscriber) Subscribe(_ context.Context, subject, durable string, handler pktNats.EventHandler) error {
	r.subject, r.durable, r.handler = subject, durable, handler
	return nil
}

func forumTexts(t *testing.T, f unitofwork.RepositoryFactory, challengeId string) []string {
	t.Helper()
	msgs, err := f.NewUnitOfWork(context.Background()).ForumMessageRepository().FindAll(context.Background(), specification.ByChallengeID{ChallengeID: challengeId})
	require.NoError(t, err)
	out := make([]string, len(msgs))
	for i, m := range msgs {
		assert.Equal(t, ActivityAuthorId, m.UserId)
		assert.Equal(t, ActivityAuthorName, m.UserName)
		out[i] = m.Text
	}
	return out
}

func TestActivityPostsJoinAndCompletion(t *testing.T) {
	f, _ := repotest.NewFactory(t)
	repotest.SeedUser(t, f, &entity.User{Uid: "u1", NameSurname: "Ada Lovelace"})
	sub := &recordingSubscriber{}
	rec := &events.Recorder{}
	svc := NewActivityService(sub, f, rec, nop).(*activityService)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, ActivitySubject, sub.subject)
	assert.Equal(t, "forum-activity", sub.durable)

	ctx := context.Background()
	require.NoError(t, sub.handler(ctx, events.New(events.ChallengeJoined, map[string]interface{}{"userId": "u1", "challengeId": "c1"})))
	// Points arrive as float64 after a trip through JSON.
	require.NoError(t, sub.handler(ctx, events.New(events.ChallengeCompleted, map[string]interface{}{"userId": "u1", "challengeId": "c1", "pointsAwarded": float64(200)})))

	assert.Equal(t, []string{
		"Ada Lovelace completed this challenge and earned 200 points!",
		"Ada Lovelace just joined this challenge!",
	}, forumTexts(t, f, "c1"))

	posted := rec.OfType(events.ForumMessagePosted)
	require.Len(t, posted, 2)
	assert.Equal(t, ActivityAuthorName, posted[0].Payload()["userName"])
}

func TestActivityIgnoresOtherEvents(t *testing.T) {
	f, _ := repotest.NewFactory(t)
	svc := NewActivityService(&recordingSubscriber{}, f, nil, nop)
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, events.New(events.ChallengesImported, map[string]interface{}{"challengeId": "c1"})))
	require.NoError(t, svc.Handle(ctx, events.New(events.ChallengeJoined, map[string]interface{}{"challengeId": "c1"})))
	assert.Empty(t, forumTexts(t, f, "c1"))

	require.NoError(t, svc.Handle(ctx, events.New(events.ChallengeJoined, map[string]interface{}{"userId": "stranger", "challengeId": "c1"})))
	assert.Equal(t, []string{"A traveler just joined this challenge!"}, forumTexts(t, f, "c1"))
}
