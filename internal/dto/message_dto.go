package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Body          string  `json:"body"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

type MessageResponse struct {
	Id            uuid.UUID  `json:"id"`
	ChatId        uuid.UUID  `json:"chat_id"`
	SenderId      uuid.UUID  `json:"sender_id"`
	ReceiverId    *uuid.UUID `json:"receiver_id,omitempty"`
	Body          string     `json:"body"`
	AttachmentURL *string    `json:"attachment_url,omitempty"`
	IsRead        bool       `json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
}
