package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	evt, err := Decode("events.challenge.completed", []byte(`{"type":"challenge.completed","data":{"userId":"u1"},"occurred_at":"2026-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "challenge.completed", evt.EventType())
	assert.Equal(t, "u1", evt.Payload()["userId"])
	assert.Equal(t, 2026, evt.Timestamp().Year())

	evt, err = Decode("events.challenge.joined", []byte(`{"data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "challenge.joined", evt.EventType())

	_, err = Decode("events.x", []byte("not json"))
	assert.Error(t, err)
}
