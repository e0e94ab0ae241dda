package contract

import (
	"context"

	"fintrust-support-be/internal/entity"

	"github.com/google/uuid"
)

// AgentRepository is the agent directory: which departments each agent
// serves and who the default agent is.
type AgentRepository interface {
	Create(ctx context.Context, profile *entity.AgentProfile) error
	FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.AgentProfile, error)
	FindDefault(ctx context.Context) (*entity.AgentProfile, error)
}
