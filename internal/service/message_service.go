package service

import (
	"context"
	"strings"
	"time"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/model"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Pusher delivers an event frame to a user's live connection, if any.
// Satisfied by the websocket hub.
type Pusher interface {
	SendToUser(userID uuid.UUID, event string, data interface{}) bool
}

type IMessageService interface {
	Send(ctx context.Context, actor *entity.Actor, chatId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
	pusher     Pusher
	logger     logger.ILogger
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory, pusher Pusher, log logger.ILogger) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
		pusher:     pusher,
		logger:     log,
	}
}

// Send runs the delivery pipeline: authorize, persist, notify. The message,
// the inbox-ordering bump and the notification rows commit in one
// transaction; live pushes happen only after the commit so a crash cannot
// announce a message that was never stored.
func (s *messageService) Send(ctx context.Context, actor *entity.Actor, chatId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if strings.TrimSpace(req.Body) == "" && req.AttachmentURL == nil {
		return nil, apperror.Validation("message needs a body or an attachment")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindByID(ctx, chatId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if chat == nil {
		return nil, apperror.NotFound("chat not found")
	}

	isParticipant, err := uow.ParticipantRepository().Exists(ctx, chatId, actor.Id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !isParticipant {
		return nil, apperror.Forbidden("not a participant of this chat")
	}

	participants, err := uow.ParticipantRepository().FindByChatID(ctx, chatId)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	recipients := make([]uuid.UUID, 0, len(participants)-1)
	for _, p := range participants {
		if p.UserId != actor.Id {
			recipients = append(recipients, p.UserId)
		}
	}

	sender, err := uow.UserRepository().FindByID(ctx, actor.Id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if sender == nil {
		return nil, apperror.Unauthorized("unknown sender")
	}

	now := time.Now()
	message := &entity.Message{
		Id:            uuid.New(),
		ChatId:        chatId,
		SenderId:      actor.Id,
		Body:          req.Body,
		AttachmentURL: req.AttachmentURL,
		CreatedAt:     now,
	}
	// 1:1 chat types address the single counterpart directly; group chats
	// compute fan-out from the participant set and store no receiver.
	if chat.Type != entity.ChatTypeGroupChat && len(recipients) == 1 {
		message.ReceiverId = &recipients[0]
	}

	notifType, err := uow.NotificationRepository().GetNotificationTypeByCode(ctx, "NEW_MESSAGE")
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.ChatRepository().BumpUpdatedAt(ctx, chatId, now); err != nil {
		return nil, apperror.Internal(err)
	}

	if notifType != nil && notifType.IsActive {
		text := renderTemplate(notifType.Template, map[string]string{
			"actor": sender.FullName,
			"chat":  chat.Name,
		})
		for _, recipient := range recipients {
			notification := &model.Notification{
				ID:       uuid.New(),
				UserID:   recipient,
				ActorID:  &actor.Id,
				TypeCode: notifType.Code,
				ChatID:   &chatId,
				Title:    notifType.DisplayName,
				Message:  text,
			}
			if err := uow.NotificationRepository().CreateNotification(ctx, notification); err != nil {
				return nil, apperror.Internal(err)
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	frame := map[string]interface{}{
		"from":    actor.Id,
		"message": messageToResponse(message),
	}
	for _, recipient := range recipients {
		if !s.pusher.SendToUser(recipient, "message", frame) {
			s.logger.Debug("Message", "Recipient offline, skipping push", map[string]interface{}{
				"chat_id":   chatId,
				"recipient": recipient,
			})
		}
	}

	return messageToResponse(message), nil
}
