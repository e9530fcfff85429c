package implementation

import (
	"context"
	"errors"
	"strings"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/mapper"
	"hk-explorer-be/internal/model"
	"hk-explorer-be/internal/repository/contract"
	"hk-explorer-be/internal/repository/scope"
	"hk-explorer-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChallengeMapper
}

func NewChallengeRepository(db *gorm.DB) contract.ChallengeRepository {
	return &ChallengeRepositoryImpl{
		db:     db,
		mapper: mapper.NewChallengeMapper(),
	}
}

func (r *ChallengeRepositoryImpl) Create(ctx context.Context, challenge *entity.Challenge) error {
	if challenge.Id == "" {
		challenge.Id = uuid.NewString()
	}
	m := r.mapper.ToModel(challenge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*challenge = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChallengeRepositoryImpl) Update(ctx context.Context, challenge *entity.Challenge) error {
	m := r.mapper.ToModel(challenge)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*challenge = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChallengeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Challenge, error) {
	var m model.Challenge
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChallengeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Challenge, error) {
	var models []*model.Challenge
	query := applySpecifications(scope.CatalogOrder(r.db.WithContext(ctx)), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChallengeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Challenge{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistingTitles returns every stored title, lower-cased and trimmed.
func (r *ChallengeRepositoryImpl) ExistingTitles(ctx context.Context) (map[string]struct{}, error) {
	var titles []string
	if err := r.db.WithContext(ctx).Model(&model.Challenge{}).Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set, nil
}
