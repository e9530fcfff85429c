package mapper

import (
	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Uid:                 u.Uid,
		NameSurname:         u.NameSurname,
		Email:               u.Email,
		CumPoints:           u.CumPoints,
		JoinedChallenges:    nonNil(u.JoinedChlgs),
		CompletedChallenges: nonNil(u.CompletedChlg),
		PicURL:              u.UserPicURL,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Uid:           u.Uid,
		NameSurname:   u.NameSurname,
		Email:         u.Email,
		CumPoints:     u.CumPoints,
		JoinedChlgs:   nonNil(u.JoinedChallenges),
		CompletedChlg: nonNil(u.CompletedChallenges),
		UserPicURL:    u.PicURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
