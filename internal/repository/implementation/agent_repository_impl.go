package implementation

import (
	"context"
	"errors"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/mapper"
	"fintrust-support-be/internal/model"
	"fintrust-support-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAgentRepository(db *gorm.DB) contract.AgentRepository {
	return &AgentRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *AgentRepositoryImpl) Create(ctx context.Context, profile *entity.AgentProfile) error {
	m := r.mapper.AgentProfileToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.AgentProfileToEntity(m)
	return nil
}

func (r *AgentRepositoryImpl) FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.AgentProfile, error) {
	var m model.AgentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AgentProfileToEntity(&m), nil
}

func (r *AgentRepositoryImpl) FindDefault(ctx context.Context) (*entity.AgentProfile, error) {
	var m model.AgentProfile
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AgentProfileToEntity(&m), nil
}
