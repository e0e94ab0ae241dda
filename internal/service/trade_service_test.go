package service

import (
	"context"
	"testing"
	"time"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeCompletionClosesChat(t *testing.T) {
	store := newFakeStore()
	pusher := newFakePusher()
	chatSvc := NewChatService(newFakeFactory(store), nil, pusher, noopLogger{})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewTradeService(pubSub, pubSub, "TRADE_COMPLETED", chatSvc, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	agent := store.addUser(entity.UserRoleAgent, "agent")
	chatId := seedCustomerChat(store, customer.Id, agent.Id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.StartConsumer(ctx))

	err := svc.PublishTradeCompleted(ctx, actorOf(agent), &dto.TradeCompletedRequest{
		ChatId:  chatId,
		TradeId: "T-1042",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.details[chatId].Status == entity.ChatStatusSuccessful
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, pusher.eventsFor(customer.Id), "chat-successful")
}

func TestTradeCompletionIsIdempotent(t *testing.T) {
	store := newFakeStore()
	pusher := newFakePusher()
	chatSvc := NewChatService(newFakeFactory(store), nil, pusher, noopLogger{})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewTradeService(pubSub, pubSub, "TRADE_COMPLETED", chatSvc, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	agent := store.addUser(entity.UserRoleAgent, "agent")
	chatId := seedCustomerChat(store, customer.Id, agent.Id)
	store.details[chatId].Status = entity.ChatStatusSuccessful

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.StartConsumer(ctx))

	err := svc.PublishTradeCompleted(ctx, actorOf(agent), &dto.TradeCompletedRequest{
		ChatId:  chatId,
		TradeId: "T-1042",
	})
	require.NoError(t, err)

	// The consumer treats the already-successful chat as settled.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, entity.ChatStatusSuccessful, store.details[chatId].Status)
	assert.Empty(t, pusher.eventsFor(customer.Id))
}

func TestPublishTradeCompletedForbiddenForCustomers(t *testing.T) {
	store := newFakeStore()
	chatSvc := NewChatService(newFakeFactory(store), nil, newFakePusher(), noopLogger{})

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewTradeService(pubSub, pubSub, "TRADE_COMPLETED", chatSvc, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")

	err := svc.PublishTradeCompleted(context.Background(), actorOf(customer), &dto.TradeCompletedRequest{
		ChatId:  store.addUser(entity.UserRoleAgent, "x").Id,
		TradeId: "T-1",
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}
