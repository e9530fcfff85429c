package contract

import (
	"context"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/repository/specification"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entity.Challenge) error
	Update(ctx context.Context, challenge *entity.Challenge) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Challenge, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Challenge, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	ExistingTitles(ctx context.Context) (map[string]struct{}, error)
}
