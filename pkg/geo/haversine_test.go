package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSymmetric(t *testing.T) {
	pairs := []struct {
		name string
		a, b Coordinate
	}{
		{"central to tsim sha tsui", Coordinate{22.2819, 114.1582}, Coordinate{22.2976, 114.1722}},
		{"across equator", Coordinate{-10.5, 20.25}, Coordinate{15.75, -40.0}},
		{"near antipodal", Coordinate{0, 0}, Coordinate{0.0001, 179.9999}},
		{"poles", Coordinate{90, 0}, Coordinate{-90, 0}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a), 1e-6)
		})
	}
}

func TestDistanceToSelfIsZero(t *testing.T) {
	points := []Coordinate{
		{22.2800, 114.1700},
		{0, 0},
		{-33.8688, 151.2093},
		{89.9999, -179.9999},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p, p))
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of latitude along a meridian.
	oneDegree := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, oneDegree, Distance(Coordinate{0, 0}, Coordinate{1, 0}), 1e-6)

	// Antipodal points are half the circumference apart.
	half := EarthRadiusMeters * math.Pi
	assert.InDelta(t, half, Distance(Coordinate{0, 0}, Coordinate{0, 180}), 1e-3)

	assert.False(t, math.IsNaN(Distance(Coordinate{45, 0}, Coordinate{-45, 180})))
}

func TestDistanceVerificationScenario(t *testing.T) {
	user := Coordinate{22.2800, 114.1700}
	challenge := Coordinate{22.2795, 114.1698}

	d := Distance(user, challenge)
	assert.InDelta(t, 60, d, 5)
	assert.Equal(t, 59, RoundMeters(d))
}

func TestGeofenceBoundary(t *testing.T) {
	fence := NewGeofence(DefaultThresholdMeters)

	tests := []struct {
		distance float64
		want     bool
	}{
		{0, true},
		{499.9999, true},
		{500.0, true},
		{500.0001, false},
		{3000, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fence.Contains(tt.distance), "distance %v", tt.distance)
	}
}

func TestNewGeofenceDefaults(t *testing.T) {
	assert.Equal(t, DefaultThresholdMeters, NewGeofence(0).ThresholdMeters)
	assert.Equal(t, DefaultThresholdMeters, NewGeofence(-1).ThresholdMeters)
	assert.Equal(t, 250.0, NewGeofence(250).ThresholdMeters)
}

func TestGeofenceCheck(t *testing.T) {
	fence := NewGeofence(DefaultThresholdMeters)
	target := Coordinate{22.2795, 114.1698}

	d, inside := fence.Check(Coordinate{22.2800, 114.1700}, target)
	assert.True(t, inside)
	assert.Less(t, d, 100.0)

	// Roughly 1.1 km north.
	d, inside = fence.Check(Coordinate{22.2895, 114.1698}, target)
	assert.False(t, inside)
	assert.Greater(t, d, 1000.0)
}
