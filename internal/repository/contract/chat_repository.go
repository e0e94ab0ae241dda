package contract

import (
	"context"
	"time"

	"fintrust-support-be/internal/entity"

	"github.com/google/uuid"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error

	// FindByIDAndType never returns a chat of a different type; every fetch
	// path filters on type explicitly.
	FindByIDAndType(ctx context.Context, id uuid.UUID, chatType entity.ChatType) (*entity.Chat, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error)

	// FindForUser returns all chats the user participates in, most recently
	// updated first. chatType narrows to one type when non-empty.
	FindForUser(ctx context.Context, userId uuid.UUID, chatType entity.ChatType) ([]*entity.Chat, error)

	// FindPairByType returns the existing chat of the given type whose
	// participant set contains both users, if any.
	FindPairByType(ctx context.Context, userA, userB uuid.UUID, chatType entity.ChatType) (*entity.Chat, error)

	BumpUpdatedAt(ctx context.Context, chatId uuid.UUID, at time.Time) error

	CreateDetails(ctx context.Context, details *entity.ChatDetails) error
	FindDetailsByChatID(ctx context.Context, chatId uuid.UUID) (*entity.ChatDetails, error)
	UpdateDetailsStatus(ctx context.Context, chatId uuid.UUID, status entity.ChatStatus) error
}
