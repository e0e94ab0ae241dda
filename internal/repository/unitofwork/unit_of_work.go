package unitofwork

import (
	"context"

	"fintrust-support-be/internal/repository"
	"fintrust-support-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AgentRepository() contract.AgentRepository
	ChatRepository() contract.ChatRepository
	ParticipantRepository() contract.ParticipantRepository
	MessageRepository() contract.MessageRepository
	NotificationRepository() repository.NotificationRepository
}
