package dto

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantView struct {
	UserId   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	IsOwner  bool      `json:"is_owner,omitempty"`
}

// ChatListItem is one row of the caller's inbox, ordered by UpdatedAt desc.
type ChatListItem struct {
	Id           uuid.UUID         `json:"id"`
	Type         string            `json:"type"`
	Name         string            `json:"name,omitempty"`
	Participants []ParticipantView `json:"participants"`
	LastMessage  *MessageResponse  `json:"last_message,omitempty"`
	UnreadCount  int64             `json:"unread_count"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type ChatDetailResponse struct {
	Id           uuid.UUID         `json:"id"`
	Type         string            `json:"type"`
	Name         string            `json:"name,omitempty"`
	Status       string            `json:"status,omitempty"`
	CategoryId   int64             `json:"category_id,omitempty"`
	DepartmentId int64             `json:"department_id,omitempty"`
	Participants []ParticipantView `json:"participants"`
	Messages     []MessageResponse `json:"messages"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type CreateGroupChatRequest struct {
	Name           string      `json:"name" validate:"required"`
	ParticipantIds []uuid.UUID `json:"participant_ids" validate:"required,min=1"`
}

type CreateGroupChatResponse struct {
	Id uuid.UUID `json:"id"`
}

type EnsureTeamChatRequest struct {
	PeerId uuid.UUID `json:"peer_id" validate:"required"`
}

type EnsureTeamChatResponse struct {
	Id      uuid.UUID `json:"id"`
	Created bool      `json:"created"`
}

type SetChatStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing successful declined"`
}

type TakeoverResponse struct {
	ChatId   uuid.UUID `json:"chat_id"`
	NewOwner uuid.UUID `json:"new_owner"`
}

type TradeCompletedRequest struct {
	ChatId  uuid.UUID `json:"chat_id" validate:"required"`
	TradeId string    `json:"trade_id" validate:"required"`
}
