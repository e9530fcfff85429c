package entity

import (
	"slices"
	"time"

	"hk-explorer-be/pkg/geo"
)

// DefaultChallengeScore is awarded when a challenge carries no score.
const DefaultChallengeScore = 100

type Challenge struct {
	Id               string
	Title            string
	Description      string
	Type             string
	Difficulty       string
	Score            *int
	ExpectedDuration string // "HH:MM:SS"

	// Location is the structured geo-point; Latitude/Longitude are the legacy flat fields.
	Location  *geo.Coordinate
	Latitude  *float64
	Longitude *float64

	JoinedPeople []string
	SponsorName  *string
	SponsorType  *string
	PicURL       string
	Source       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Coordinates resolves the challenge position. The structured point wins over
// the flat fields.
func (c *Challenge) Coordinates() (geo.Coordinate, bool) {
	if c.Location != nil {
		return *c.Location, true
	}
	if c.Latitude != nil && c.Longitude != nil {
		return geo.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}, true
	}
	return geo.Coordinate{}, false
}

func (c *Challenge) RewardPoints() int {
	if c.Score == nil {
		return DefaultChallengeScore
	}
	return *c.Score
}

func (c *Challenge) HasParticipant(uid string) bool {
	return slices.Contains(c.JoinedPeople, uid)
}

// AddToSet appends v unless already present.
func AddToSet(set []string, v string) []string {
	if slices.Contains(set, v) {
		return set
	}
	return append(set, v)
}

// RemoveFromSet returns set without any occurrence of v.
func RemoveFromSet(set []string, v string) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
