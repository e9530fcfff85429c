package mapper

import (
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/model"
)

type WeeklyEventMapper struct{}

func NewWeeklyEventMapper() *WeeklyEventMapper {
	return &WeeklyEventMapper{}
}

func (m *WeeklyEventMapper) ToEntity(e *model.WeeklyEvent) *entity.WeeklyEvent {
	if e == nil {
		return nil
	}
	multiplier := e.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	return &entity.WeeklyEvent{
		Id:             e.Id,
		Description:    e.Description,
		Multiplier:     multiplier,
		TargetCategory: e.TargetCategory,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
	}
}

func (m *WeeklyEventMapper) ToModel(e *entity.WeeklyEvent) *model.WeeklyEvent {
	if e == nil {
		return nil
	}
	return &model.WeeklyEvent{
		Id:             e.Id,
		Description:    e.Description,
		Multiplier:     e.Multiplier,
		TargetCategory: e.TargetCategory,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
	}
}

func (m *WeeklyEventMapper) ToEntities(events []*model.WeeklyEvent) []*entity.WeeklyEvent {
	entities := make([]*entity.WeeklyEvent, len(events))
	for i, e := range events {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

type ForumMessageMapper struct{}

func NewForumMessageMapper() *ForumMessageMapper {
	return &ForumMessageMapper{}
}

func (m *ForumMessageMapper) ToEntity(f *model.ForumMessage) *entity.ForumMessage {
	if f == nil {
		return nil
	}
	return &entity.ForumMessage{
		Id:          f.Id,
		ChallengeId: f.ChallengeId,
		UserId:      f.UserId,
		UserName:    f.UserName,
		Text:        f.Text,
		CreatedAt:   f.CreatedAt,
	}
}

func (m *ForumMessageMapper) ToModel(f *entity.ForumMessage) *model.ForumMessage {
	if f == nil {
		return nil
	}
	return &model.ForumMessage{
		Id:          f.Id,
		ChallengeId: f.ChallengeId,
		UserId:      f.UserId,
		UserName:    f.UserName,
		Text:        f.Text,
		CreatedAt:   f.CreatedAt,
	}
}

func (m *ForumMessageMapper) ToEntities(messages []*model.ForumMessage) []*entity.ForumMessage {
	entities := make([]*entity.ForumMessage, len(messages))
	for i, f := range messages {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
