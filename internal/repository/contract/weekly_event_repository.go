package contract

import (
	"context"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/repository/specification"
)

type WeeklyEventRepository interface {
	Create(ctx context.Context, event *entity.WeeklyEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyEvent, error)
}
