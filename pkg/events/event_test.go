package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failing struct{}

func (failing) Publish(context.Context, Event) error { return errors.New("bus down") }

func TestFanoutReachesEveryPublisher(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	err := Fanout{a, failing{}, b}.Publish(context.Background(), New(ChallengeJoined, map[string]interface{}{"userId": "u1"}))

	assert.EqualError(t, err, "bus down")
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.OfType(ChallengeJoined), 1)
	assert.Empty(t, b.OfType(ChallengeCompleted))
}

func TestFanoutEmpty(t *testing.T) {
	assert.NoError(t, Fanout{}.Publish(context.Background(), New(ChallengeJoined, nil)))
}
