package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/model"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/pkg/mailer"
	"fintrust-support-be/internal/repository/unitofwork"
	"fintrust-support-be/pkg/events"
	pktNats "fintrust-support-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type INotificationService interface {
	// Start attaches the worker to the event bus. Call once at boot.
	Start() error

	GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, notificationId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory   unitofwork.RepositoryFactory
	subscriber   *pktNats.Subscriber
	pusher       Pusher
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pktNats.Subscriber,
	pusher Pusher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory:   uowFactory,
		subscriber:   subscriber,
		pusher:       pusher,
		emailService: emailService,
		logger:       log,
	}
}

// Start subscribes the durable worker to every domain event. Events whose
// code has no active registry row are acknowledged and skipped, so new event
// types can ship before their notification copy does.
func (s *notificationService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("Notification", "No subscriber configured, worker disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("support.>", "notification-worker", s.handleEvent)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notifType, err := uow.NotificationRepository().GetNotificationTypeByCode(ctx, event.EventType())
	if err != nil {
		return err
	}
	if notifType == nil || !notifType.IsActive {
		return nil
	}

	targets, err := s.resolveTargets(ctx, uow, notifType, event.Payload())
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}

	text := renderTemplate(notifType.Template, payloadVars(event.Payload()))
	channels := decodeChannels(notifType.Channels)

	metadata, _ := json.Marshal(event.Payload())
	actorId := payloadUUID(event.Payload(), "actor_id")
	chatId := payloadUUID(event.Payload(), "chat_id")

	for _, target := range targets {
		notification := &model.Notification{
			ID:       uuid.New(),
			UserID:   target,
			ActorID:  actorId,
			TypeCode: notifType.Code,
			ChatID:   chatId,
			Title:    notifType.DisplayName,
			Message:  text,
			Metadata: metadata,
		}
		if err := uow.NotificationRepository().CreateNotification(ctx, notification); err != nil {
			return err
		}

		for _, channel := range channels {
			switch channel {
			case "web":
				s.pusher.SendToUser(target, "notification", notification)
			case "email":
				s.sendEmail(ctx, uow, target, notifType.DisplayName, text)
			}
		}
	}

	return nil
}

// resolveTargets maps the registry targeting rule to concrete user ids.
// SELF reads user_id from the event payload, ADMIN fans out to every admin,
// ROLE to every user holding the registry's target role.
func (s *notificationService) resolveTargets(ctx context.Context, uow unitofwork.UnitOfWork, notifType *model.NotificationType, payload map[string]interface{}) ([]uuid.UUID, error) {
	switch notifType.TargetType {
	case "SELF":
		if id := payloadUUID(payload, "user_id"); id != nil {
			return []uuid.UUID{*id}, nil
		}
		return nil, nil
	case "ADMIN":
		return s.usersByRole(ctx, uow, entity.UserRoleAdmin)
	case "ROLE":
		return s.usersByRole(ctx, uow, entity.UserRole(notifType.TargetRole))
	default:
		return nil, fmt.Errorf("unknown target type %q for %s", notifType.TargetType, notifType.Code)
	}
}

func (s *notificationService) usersByRole(ctx context.Context, uow unitofwork.UnitOfWork, role entity.UserRole) ([]uuid.UUID, error) {
	users, err := uow.NotificationRepository().GetUsersByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.Id)
	}
	return ids, nil
}

func (s *notificationService) sendEmail(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, title, message string) {
	pref, err := uow.NotificationRepository().GetPreference(ctx, userId)
	if err != nil || !pref.EmailEnabled {
		return
	}
	user, err := uow.UserRepository().FindByID(ctx, userId)
	if err != nil || user == nil {
		return
	}
	go func() {
		if err := s.emailService.SendNotification(user.Email, title, message); err != nil {
			s.logger.Warn("Notification", "Email delivery failed", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		}
	}()
}

func (s *notificationService) GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := uow.NotificationRepository().GetNotificationsByUserID(ctx, userId, limit, offset)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.NotificationRepository().GetUnreadCount(ctx, userId)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, notificationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().MarkAsRead(ctx, notificationId); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().MarkAllAsRead(ctx, userId); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// renderTemplate substitutes {key} placeholders. Unknown placeholders are
// left in place so a broken registry row is visible rather than silent.
func renderTemplate(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

func payloadVars(payload map[string]interface{}) map[string]string {
	vars := make(map[string]string, len(payload))
	for key, value := range payload {
		vars[key] = fmt.Sprintf("%v", value)
	}
	return vars
}

func payloadUUID(payload map[string]interface{}, key string) *uuid.UUID {
	raw, ok := payload[key].(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func decodeChannels(raw datatypes.JSON) []string {
	var channels []string
	if err := json.Unmarshal(raw, &channels); err != nil || len(channels) == 0 {
		return []string{"web"}
	}
	return channels
}
