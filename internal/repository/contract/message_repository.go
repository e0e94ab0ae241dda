package contract

import (
	"context"

	"fintrust-support-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error

	// FindByChatID returns the chat's messages in creation order.
	FindByChatID(ctx context.Context, chatId uuid.UUID) ([]*entity.Message, error)
	FindLastByChatID(ctx context.Context, chatId uuid.UUID) (*entity.Message, error)

	CountUnread(ctx context.Context, chatId, receiverId uuid.UUID) (int64, error)

	// MarkReadByReceiver flips every unread message addressed to the
	// receiver in the chat. Messages the receiver sent are untouched.
	MarkReadByReceiver(ctx context.Context, chatId, receiverId uuid.UUID) error
}
