package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgentProfile is the directory record for a support agent: which
// departments the agent is authorized to serve and whether this is the
// designated default agent that holds unassigned customer chats.
type AgentProfile struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Departments []int64
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServesDepartment reports whether the agent is authorized for the
// department.
func (a *AgentProfile) ServesDepartment(departmentId int64) bool {
	for _, d := range a.Departments {
		if d == departmentId {
			return true
		}
	}
	return false
}
