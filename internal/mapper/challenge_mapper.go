package mapper

import (
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/model"
	"hk-explorer-be/pkg/geo"
)

type ChallengeMapper struct{}

func NewChallengeMapper() *ChallengeMapper {
	return &ChallengeMapper{}
}

func (m *ChallengeMapper) ToEntity(c *model.Challenge) *entity.Challenge {
	if c == nil {
		return nil
	}

	var location *geo.Coordinate
	if c.LocationLatitude != nil && c.LocationLongitude != nil {
		location = &geo.Coordinate{Latitude: *c.LocationLatitude, Longitude: *c.LocationLongitude}
	}

	return &entity.Challenge{
		Id:               c.Id,
		Title:            c.Title,
		Description:      c.Description,
		Type:             c.Type,
		Difficulty:       c.Difficulty,
		Score:            c.Score,
		ExpectedDuration: c.ExpectedDuration,
		Location:         location,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		JoinedPeople:     nonNil(c.JoinedPeople),
		SponsorName:      c.SponsorName,
		SponsorType:      c.SponsorType,
		PicURL:           c.ChlgPicURL,
		Source:           c.Source,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *ChallengeMapper) ToModel(c *entity.Challenge) *model.Challenge {
	if c == nil {
		return nil
	}

	out := &model.Challenge{
		Id:               c.Id,
		Title:            c.Title,
		Description:      c.Description,
		Type:             c.Type,
		Difficulty:       c.Difficulty,
		Score:            c.Score,
		ExpectedDuration: c.ExpectedDuration,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		JoinedPeople:     nonNil(c.JoinedPeople),
		SponsorName:      c.SponsorName,
		SponsorType:      c.SponsorType,
		ChlgPicURL:       c.PicURL,
		Source:           c.Source,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Location != nil {
		lat, lon := c.Location.Latitude, c.Location.Longitude
		out.LocationLatitude = &lat
		out.LocationLongitude = &lon
	}
	return out
}

func (m *ChallengeMapper) ToEntities(challenges []*model.Challenge) []*entity.Challenge {
	entities := make([]*entity.Challenge, len(challenges))
	for i, c := range challenges {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
