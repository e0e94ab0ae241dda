package model

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type      string    `gorm:"type:varchar(30);not null;index"`
	Name      string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_chats_updated"`
}

func (Chat) TableName() string {
	return "chats"
}

// ChatParticipant rows are unique per (chat_id, user_id) so no read-side
// de-duplication is ever needed.
type ChatParticipant struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_participants_chat_user,priority:1;index"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chat_participants_chat_user,priority:2;index"`
	IsOwner   bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatParticipant) TableName() string {
	return "chat_participants"
}

type ChatDetail struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CategoryId   int64     `gorm:"not null;default:0"`
	DepartmentId int64     `gorm:"not null;default:0;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ChatDetail) TableName() string {
	return "chat_details"
}
