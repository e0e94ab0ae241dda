package presence

import (
	"time"

	"fintrust-support-be/internal/entity"

	"github.com/google/uuid"
)

// ConnectionSession is the ephemeral record of one actor's live connection,
// kept in the in-memory session store for inspection and cleanup. Never
// persisted.
type ConnectionSession struct {
	ID              string // handle key
	UserID          uuid.UUID
	Role            entity.UserRole
	DepartmentId    int64
	CategoryId      int64
	IsAgentAssigned bool
	ConnectedAt     time.Time
}
