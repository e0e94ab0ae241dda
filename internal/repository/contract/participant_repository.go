package contract

import (
	"context"

	"fintrust-support-be/internal/entity"

	"github.com/google/uuid"
)

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, participants []*entity.ChatParticipant) error
	FindByChatID(ctx context.Context, chatId uuid.UUID) ([]*entity.ChatParticipant, error)
	Exists(ctx context.Context, chatId, userId uuid.UUID) (bool, error)
	CountByChatID(ctx context.Context, chatId uuid.UUID) (int64, error)

	// ReplaceUser rewrites every participant row of fromUserId in the chat
	// to toUserId and reports how many rows changed. Zero means another
	// caller already claimed the chat (compare-and-swap semantics).
	ReplaceUser(ctx context.Context, chatId, fromUserId, toUserId uuid.UUID) (int64, error)
}
