package implementation

import (
	"context"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/mapper"
	"fintrust-support-be/internal/model"
	"fintrust-support-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewParticipantRepository(db *gorm.DB) contract.ParticipantRepository {
	return &ParticipantRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ParticipantRepositoryImpl) CreateBatch(ctx context.Context, participants []*entity.ChatParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	models := make([]*model.ChatParticipant, len(participants))
	for i, p := range participants {
		models[i] = r.mapper.ParticipantToModel(p)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*participants[i] = *r.mapper.ParticipantToEntity(m)
	}
	return nil
}

func (r *ParticipantRepositoryImpl) FindByChatID(ctx context.Context, chatId uuid.UUID) ([]*entity.ChatParticipant, error) {
	var models []*model.ChatParticipant
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatId).Find(&models).Error; err != nil {
		return nil, err
	}
	participants := make([]*entity.ChatParticipant, len(models))
	for i, m := range models {
		participants[i] = r.mapper.ParticipantToEntity(m)
	}
	return participants, nil
}

func (r *ParticipantRepositoryImpl) Exists(ctx context.Context, chatId, userId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatId, userId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ParticipantRepositoryImpl) CountByChatID(ctx context.Context, chatId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatParticipant{}).
		Where("chat_id = ?", chatId).
		Count(&count).Error
	return count, err
}

// ReplaceUser is the takeover compare-and-swap: a single bulk UPDATE
// filtered on (chat_id, user_id = fromUserId). A concurrent claim that ran
// first leaves zero rows to update, so the loser observes 0 and fails.
func (r *ParticipantRepositoryImpl) ReplaceUser(ctx context.Context, chatId, fromUserId, toUserId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatId, fromUserId).
		Update("user_id", toUserId)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
