package service

import (
	"context"
	"time"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/presence"
	"fintrust-support-be/internal/repository/unitofwork"
	"fintrust-support-be/pkg/events"
	pktNats "fintrust-support-be/pkg/nats"

	"github.com/google/uuid"
)

// AssignmentResult reports what the assignment scan decided for one
// connecting customer. Assigned false means no agent serving the department
// was online, not even the default agent; no chat exists in that case.
type AssignmentResult struct {
	Assigned bool
	AgentId  uuid.UUID
	ChatId   uuid.UUID
	Created  bool
}

type IAssignmentService interface {
	Assign(ctx context.Context, customerId uuid.UUID, departmentId, categoryId int64) (*AssignmentResult, error)
}

type assignmentService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       presence.Registry
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAssignmentService(
	uowFactory unitofwork.RepositoryFactory,
	registry presence.Registry,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAssignmentService {
	return &assignmentService{
		uowFactory:     uowFactory,
		registry:       registry,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Assign scans the connected agent set for someone serving the department,
// preferring a dedicated agent over the default one, then makes sure a
// customer_to_agent chat binds the pair. Re-running for an existing pair is
// idempotent and reuses the chat.
func (s *assignmentService) Assign(ctx context.Context, customerId uuid.UUID, departmentId, categoryId int64) (*AssignmentResult, error) {
	agent := s.pickAgent(departmentId)
	if agent == nil {
		s.logger.Info("Assignment", "No agent online for department", map[string]interface{}{
			"customer_id":   customerId,
			"department_id": departmentId,
		})
		return &AssignmentResult{Assigned: false}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ChatRepository().FindPairByType(ctx, customerId, agent.UserID, entity.ChatTypeCustomerToAgent)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return &AssignmentResult{
			Assigned: true,
			AgentId:  agent.UserID,
			ChatId:   existing.Id,
		}, nil
	}

	now := time.Now()
	chat := &entity.Chat{
		Id:        uuid.New(),
		Type:      entity.ChatTypeCustomerToAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, apperror.Internal(err)
	}

	participants := []*entity.ChatParticipant{
		{Id: uuid.New(), ChatId: chat.Id, UserId: customerId, CreatedAt: now},
		{Id: uuid.New(), ChatId: chat.Id, UserId: agent.UserID, IsOwner: true, CreatedAt: now},
	}
	if err := uow.ParticipantRepository().CreateBatch(ctx, participants); err != nil {
		return nil, apperror.Internal(err)
	}

	details := &entity.ChatDetails{
		Id:           uuid.New(),
		ChatId:       chat.Id,
		Status:       entity.ChatStatusPending,
		CategoryId:   categoryId,
		DepartmentId: departmentId,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.ChatRepository().CreateDetails(ctx, details); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	if s.eventPublisher != nil {
		event := events.New(events.TypeCustomerAssigned, map[string]interface{}{
			"chat_id":       chat.Id,
			"customer_id":   customerId,
			"user_id":       agent.UserID,
			"department_id": departmentId,
			"category_id":   categoryId,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Assignment", "Failed to publish event", map[string]interface{}{
				"event": events.TypeCustomerAssigned,
				"error": err.Error(),
			})
		}
	}

	return &AssignmentResult{
		Assigned: true,
		AgentId:  agent.UserID,
		ChatId:   chat.Id,
		Created:  true,
	}, nil
}

// pickAgent prefers a dedicated online agent serving the department. The
// default agent only catches customers nobody else can take, and only while
// actually connected.
func (s *assignmentService) pickAgent(departmentId int64) *presence.AgentSession {
	var fallback *presence.AgentSession
	for _, agent := range s.registry.OnlineAgents() {
		if agent.IsDefault {
			if fallback == nil {
				fallback = agent
			}
			continue
		}
		if agent.ServesDepartment(departmentId) {
			return agent
		}
	}
	return fallback
}
