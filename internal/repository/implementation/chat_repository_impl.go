package implementation

import (
	"context"
	"errors"
	"time"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/mapper"
	"fintrust-support-be/internal/model"
	"fintrust-support-be/internal/repository/contract"
	"fintrust-support-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ChatToEntity(m)
	return nil
}

func (r *ChatRepositoryImpl) FindByIDAndType(ctx context.Context, id uuid.UUID, chatType entity.ChatType) (*entity.Chat, error) {
	var m model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.ByChatType{Type: string(chatType)},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	var m model.Chat
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindForUser(ctx context.Context, userId uuid.UUID, chatType entity.ChatType) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.db.WithContext(ctx).
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id").
		Where("cp.user_id = ?", userId)
	if chatType != "" {
		query = query.Where("chats.type = ?", string(chatType))
	}
	query = r.applySpecifications(query, specification.OrderBy{Field: "chats.updated_at", Desc: true})
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	chats := make([]*entity.Chat, len(models))
	for i, m := range models {
		chats[i] = r.mapper.ChatToEntity(m)
	}
	return chats, nil
}

func (r *ChatRepositoryImpl) FindPairByType(ctx context.Context, userA, userB uuid.UUID, chatType entity.ChatType) (*entity.Chat, error) {
	var m model.Chat
	err := r.db.WithContext(ctx).
		Where("chats.type = ?", string(chatType)).
		Where("EXISTS (SELECT 1 FROM chat_participants a WHERE a.chat_id = chats.id AND a.user_id = ?)", userA).
		Where("EXISTS (SELECT 1 FROM chat_participants b WHERE b.chat_id = chats.id AND b.user_id = ?)", userB).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) BumpUpdatedAt(ctx context.Context, chatId uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Chat{}).
		Where("id = ?", chatId).
		Update("updated_at", at).Error
}

func (r *ChatRepositoryImpl) CreateDetails(ctx context.Context, details *entity.ChatDetails) error {
	m := r.mapper.DetailsToModel(details)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*details = *r.mapper.DetailsToEntity(m)
	return nil
}

func (r *ChatRepositoryImpl) FindDetailsByChatID(ctx context.Context, chatId uuid.UUID) (*entity.ChatDetails, error) {
	var m model.ChatDetail
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DetailsToEntity(&m), nil
}

func (r *ChatRepositoryImpl) UpdateDetailsStatus(ctx context.Context, chatId uuid.UUID, status entity.ChatStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatDetail{}).
		Where("chat_id = ?", chatId).
		Update("status", string(status)).Error
}
