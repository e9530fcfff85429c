package implementation

import (
	"context"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/mapper"
	"hk-explorer-be/internal/model"
	"hk-explorer-be/internal/repository/contract"
	"hk-explorer-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeeklyEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WeeklyEventMapper
}

func NewWeeklyEventRepository(db *gorm.DB) contract.WeeklyEventRepository {
	return &WeeklyEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewWeeklyEventMapper(),
	}
}

func (r *WeeklyEventRepositoryImpl) Create(ctx context.Context, event *entity.WeeklyEvent) error {
	if event.Id == "" {
		event.Id = uuid.NewString()
	}
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *WeeklyEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyEvent, error) {
	var models []*model.WeeklyEvent
	query := applySpecifications(r.db.WithContext(ctx).Order("end_date ASC"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
