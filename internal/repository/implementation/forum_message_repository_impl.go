package implementation

import (
	"context"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/mapper"
	"hk-explorer-be/internal/model"
	"hk-explorer-be/internal/repository/contract"
	"hk-explorer-be/internal/repository/scope"
	"hk-explorer-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ForumMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ForumMessageMapper
}

func NewForumMessageRepository(db *gorm.DB) contract.ForumMessageRepository {
	return &ForumMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewForumMessageMapper(),
	}
}

func (r *ForumMessageRepositoryImpl) Create(ctx context.Context, message *entity.ForumMessage) error {
	if message.Id == "" {
		message.Id = uuid.NewString()
	}
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *ForumMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ForumMessage, error) {
	var models []*model.ForumMessage
	query := applySpecifications(scope.OrderByCreatedDesc(r.db.WithContext(ctx)), specs...)
	if err := query.Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
