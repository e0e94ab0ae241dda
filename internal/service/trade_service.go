package service

import (
	"context"
	"encoding/json"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// tradeCompletedPayload is the frame exchanged on the in-process trade topic.
type tradeCompletedPayload struct {
	ChatId  uuid.UUID `json:"chat_id"`
	TradeId string    `json:"trade_id"`
}

// ITradeService bridges the trading collaborator into the chat lifecycle.
// Completion events arrive on an in-process topic and close the loop by
// moving the chat to successful and telling the customer live.
type ITradeService interface {
	PublishTradeCompleted(ctx context.Context, actor *entity.Actor, req *dto.TradeCompletedRequest) error
	StartConsumer(ctx context.Context) error
}

type tradeService struct {
	publisher   message.Publisher
	subscriber  message.Subscriber
	topic       string
	chatService IChatService
	logger      logger.ILogger
}

func NewTradeService(
	publisher message.Publisher,
	subscriber message.Subscriber,
	topic string,
	chatService IChatService,
	log logger.ILogger,
) ITradeService {
	return &tradeService{
		publisher:   publisher,
		subscriber:  subscriber,
		topic:       topic,
		chatService: chatService,
		logger:      log,
	}
}

// PublishTradeCompleted accepts a completion signal from the trading side.
// Staff only; customers cannot close their own requests.
func (s *tradeService) PublishTradeCompleted(ctx context.Context, actor *entity.Actor, req *dto.TradeCompletedRequest) error {
	if !actor.Role.IsStaff() {
		return apperror.Forbidden("only staff can report trade completion")
	}

	payload, err := json.Marshal(tradeCompletedPayload{ChatId: req.ChatId, TradeId: req.TradeId})
	if err != nil {
		return apperror.Internal(err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.publisher.Publish(s.topic, msg); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// StartConsumer drains the trade topic for the life of ctx. Each completion
// moves the chat to successful; a chat already marked successful is
// acknowledged without complaint so redelivery stays harmless.
func (s *tradeService) StartConsumer(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.consume(ctx, msg)
		}
	}()

	return nil
}

func (s *tradeService) consume(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload tradeCompletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Warn("Trade", "Bad trade completion payload", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	// The status change runs as the system, not as a staff caller.
	system := &entity.Actor{Role: entity.UserRoleAdmin}
	err := s.chatService.SetStatus(ctx, system, payload.ChatId, entity.ChatStatusSuccessful)
	if err != nil {
		if appErr, ok := apperror.As(err); ok && appErr.Code == apperror.CodeStateConflict {
			return
		}
		s.logger.Error("Trade", "Failed to close chat on trade completion", map[string]interface{}{
			"chat_id":  payload.ChatId,
			"trade_id": payload.TradeId,
			"error":    err.Error(),
		})
		return
	}

	s.logger.Info("Trade", "Chat closed by trade completion", map[string]interface{}{
		"chat_id":  payload.ChatId,
		"trade_id": payload.TradeId,
	})
}
