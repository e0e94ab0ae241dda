package service

import (
	"context"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IAgentService is the read side of the agent directory. The gateway asks it
// for a connecting staff member's serving departments; admins without a
// directory row connect with an empty department list.
type IAgentService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*entity.AgentProfile, error)
	FindDefault(ctx context.Context) (*entity.AgentProfile, error)
}

type agentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAgentService(uowFactory unitofwork.RepositoryFactory) IAgentService {
	return &agentService{
		uowFactory: uowFactory,
	}
}

func (s *agentService) GetProfile(ctx context.Context, userId uuid.UUID) (*entity.AgentProfile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.AgentRepository().FindByUserID(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (s *agentService) FindDefault(ctx context.Context) (*entity.AgentProfile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.AgentRepository().FindDefault(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}
