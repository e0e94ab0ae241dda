package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatType string

const (
	ChatTypeCustomerToAgent ChatType = "customer_to_agent"
	ChatTypeTeamChat        ChatType = "team_chat"
	ChatTypeGroupChat       ChatType = "group_chat"
)

type ChatStatus string

const (
	ChatStatusPending    ChatStatus = "pending"
	ChatStatusProcessing ChatStatus = "processing"
	ChatStatusSuccessful ChatStatus = "successful"
	ChatStatusDeclined   ChatStatus = "declined"
)

// Valid reports whether s is a known lifecycle state.
func (s ChatStatus) Valid() bool {
	switch s {
	case ChatStatusPending, ChatStatusProcessing, ChatStatusSuccessful, ChatStatusDeclined:
		return true
	}
	return false
}

// Chat is a conversation container of a fixed type. UpdatedAt is bumped on
// every new message and drives inbox ordering.
type Chat struct {
	Id        uuid.UUID
	Type      ChatType
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatParticipant ties one user to one chat. Uniqueness of (ChatId, UserId)
// is enforced at the data-model level.
type ChatParticipant struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	UserId    uuid.UUID
	IsOwner   bool
	CreatedAt time.Time
}

// ChatDetails is the one-to-one extension carrying the request lifecycle
// state and routing classification for customer_to_agent chats.
type ChatDetails struct {
	Id           uuid.UUID
	ChatId       uuid.UUID
	Status       ChatStatus
	CategoryId   int64
	DepartmentId int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
