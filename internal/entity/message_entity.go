package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to exactly one chat. ReceiverId is set for 1:1 chat types
// and nil for group chats, where fan-out is computed from the participant
// set instead of stored. Messages are immutable except for IsRead.
type Message struct {
	Id            uuid.UUID
	ChatId        uuid.UUID
	SenderId      uuid.UUID
	ReceiverId    *uuid.UUID
	Body          string
	AttachmentURL *string
	IsRead        bool
	CreatedAt     time.Time
}
