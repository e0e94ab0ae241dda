package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AgentProfile is the agent directory row. Departments is the set of
// department ids the agent is authorized to serve.
type AgentProfile struct {
	Id          uuid.UUID                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex"`
	User        User                       `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;"`
	Departments datatypes.JSONSlice[int64] `gorm:"type:jsonb"`
	IsDefault   bool                       `gorm:"default:false;index"`
	CreatedAt   time.Time                  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                  `gorm:"autoUpdateTime"`
}

func (AgentProfile) TableName() string {
	return "agent_profiles"
}
