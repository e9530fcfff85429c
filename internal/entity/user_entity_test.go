package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hk-explorer-be/pkg/geo"
)

func TestUserCompleteIsAtMostOnce(t *testing.T) {
	u := &User{Uid: "u1", CumPoints: 50, JoinedChallenges: []string{"c1", "c2"}}

	assert.True(t, u.Complete("c1", 100))
	assert.Equal(t, 150, u.CumPoints)
	assert.Equal(t, []string{"c2"}, u.JoinedChallenges)
	assert.Equal(t, []string{"c1"}, u.CompletedChallenges)

	assert.False(t, u.Complete("c1", 100))
	assert.Equal(t, 150, u.CumPoints)
	assert.Equal(t, []string{"c1"}, u.CompletedChallenges)
}

func TestChallengeCoordinatesPrecedence(t *testing.T) {
	lat, lon := 22.0, 114.0
	c := &Challenge{Latitude: &lat, Longitude: &lon}

	got, ok := c.Coordinates()
	assert.True(t, ok)
	assert.Equal(t, geo.Coordinate{Latitude: 22, Longitude: 114}, got)

	c.Location = &geo.Coordinate{Latitude: 22.5, Longitude: 114.5}
	got, _ = c.Coordinates()
	assert.Equal(t, 22.5, got.Latitude)

	_, ok = (&Challenge{Latitude: &lat}).Coordinates()
	assert.False(t, ok)
}

func TestChallengeRewardPoints(t *testing.T) {
	assert.Equal(t, DefaultChallengeScore, (&Challenge{}).RewardPoints())
	score := 250
	assert.Equal(t, 250, (&Challenge{Score: &score}).RewardPoints())
}

func TestSetHelpers(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, AddToSet([]string{"a", "b"}, "a"))
	assert.Equal(t, []string{"a", "b"}, AddToSet([]string{"a"}, "b"))
	assert.Equal(t, []string{"b"}, RemoveFromSet([]string{"a", "b", "a"}, "a"))
	assert.Empty(t, RemoveFromSet(nil, "a"))
}

func TestDurationHelpers(t *testing.T) {
	assert.Equal(t, "02:30:00", FormatDuration(2.5))
	assert.Equal(t, "00:45:00", FormatDuration(0.75))
	assert.Equal(t, "01:00:00", FormatDuration(0))

	m, ok := DurationMinutes("01:30:00")
	assert.True(t, ok)
	assert.Equal(t, 90, m)

	m, ok = DurationMinutes("00:45")
	assert.True(t, ok)
	assert.Equal(t, 45, m)

	_, ok = DurationMinutes("soon")
	assert.False(t, ok)
}
