package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId        uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	SenderId      uuid.UUID  `gorm:"type:uuid;not null"`
	ReceiverId    *uuid.UUID `gorm:"type:uuid;index:idx_messages_receiver_unread,priority:1"`
	Body          string     `gorm:"type:text"`
	AttachmentURL *string    `gorm:"type:text"`
	IsRead        bool       `gorm:"default:false;index:idx_messages_receiver_unread,priority:2"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index:idx_messages_chat_created,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}
