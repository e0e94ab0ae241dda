package service

import (
	"context"
	"testing"
	"time"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageDeliversToCounterpart(t *testing.T) {
	store := newFakeStore()
	store.addNotifType("NEW_MESSAGE", "{actor} sent you a new message", "SELF")
	pusher := newFakePusher()
	svc := NewMessageService(newFakeFactory(store), pusher, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	agent := store.addUser(entity.UserRoleAgent, "agent")
	chatId := seedCustomerChat(store, customer.Id, agent.Id)
	before := store.chats[chatId].UpdatedAt

	res, err := svc.Send(context.Background(), actorOf(customer), chatId, &dto.SendMessageRequest{Body: "help me"})
	require.NoError(t, err)

	require.NotNil(t, res.ReceiverId)
	assert.Equal(t, agent.Id, *res.ReceiverId)
	assert.False(t, res.IsRead)

	// Inbox ordering follows the latest message.
	assert.True(t, store.chats[chatId].UpdatedAt.After(before) || store.chats[chatId].UpdatedAt.Equal(res.CreatedAt))

	// Exactly one notification, addressed to the recipient.
	require.Len(t, store.notifications, 1)
	assert.Equal(t, agent.Id, store.notifications[0].UserID)
	assert.Equal(t, "customer sent you a new message", store.notifications[0].Message)

	assert.Equal(t, []string{"message"}, pusher.eventsFor(agent.Id))
	assert.Empty(t, pusher.eventsFor(customer.Id))
}

func TestSendMessageGroupChatFansOut(t *testing.T) {
	store := newFakeStore()
	store.addNotifType("NEW_MESSAGE", "{actor} sent you a new message", "SELF")
	pusher := newFakePusher()
	svc := NewMessageService(newFakeFactory(store), pusher, noopLogger{})

	admin := store.addUser(entity.UserRoleAdmin, "admin")
	a := store.addUser(entity.UserRoleAgent, "agent-a")
	b := store.addUser(entity.UserRoleAgent, "agent-b")

	now := time.Now()
	chatId := uuid.New()
	store.chats[chatId] = &entity.Chat{Id: chatId, Type: entity.ChatTypeGroupChat, Name: "escalations", CreatedAt: now, UpdatedAt: now}
	store.participants = append(store.participants,
		&entity.ChatParticipant{Id: uuid.New(), ChatId: chatId, UserId: admin.Id, IsOwner: true, CreatedAt: now},
		&entity.ChatParticipant{Id: uuid.New(), ChatId: chatId, UserId: a.Id, CreatedAt: now},
		&entity.ChatParticipant{Id: uuid.New(), ChatId: chatId, UserId: b.Id, CreatedAt: now},
	)

	res, err := svc.Send(context.Background(), actorOf(admin), chatId, &dto.SendMessageRequest{Body: "all hands"})
	require.NoError(t, err)

	// Group messages store no receiver; fan-out is computed.
	assert.Nil(t, res.ReceiverId)
	assert.Equal(t, []string{"message"}, pusher.eventsFor(a.Id))
	assert.Equal(t, []string{"message"}, pusher.eventsFor(b.Id))
	assert.Empty(t, pusher.eventsFor(admin.Id))
	assert.Len(t, store.notifications, 2)
}

func TestSendMessageRequiresBodyOrAttachment(t *testing.T) {
	store := newFakeStore()
	svc := NewMessageService(newFakeFactory(store), newFakePusher(), noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	agent := store.addUser(entity.UserRoleAgent, "agent")
	chatId := seedCustomerChat(store, customer.Id, agent.Id)

	_, err := svc.Send(context.Background(), actorOf(customer), chatId, &dto.SendMessageRequest{Body: "   "})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	url := "https://cdn.fintrust.dev/receipt.png"
	res, err := svc.Send(context.Background(), actorOf(customer), chatId, &dto.SendMessageRequest{AttachmentURL: &url})
	require.NoError(t, err)
	require.NotNil(t, res.AttachmentURL)
	assert.Equal(t, url, *res.AttachmentURL)
}

func TestSendMessageForbiddenForNonParticipants(t *testing.T) {
	store := newFakeStore()
	svc := NewMessageService(newFakeFactory(store), newFakePusher(), noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	agent := store.addUser(entity.UserRoleAgent, "agent")
	outsider := store.addUser(entity.UserRoleCustomer, "outsider")
	chatId := seedCustomerChat(store, customer.Id, agent.Id)

	_, err := svc.Send(context.Background(), actorOf(outsider), chatId, &dto.SendMessageRequest{Body: "hi"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestSendMessageUnknownChat(t *testing.T) {
	store := newFakeStore()
	svc := NewMessageService(newFakeFactory(store), newFakePusher(), noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")

	_, err := svc.Send(context.Background(), actorOf(customer), uuid.New(), &dto.SendMessageRequest{Body: "hi"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestUnreadCountClearsAfterRead(t *testing.T) {
	store := newFakeStore()
	pusher := newFakePusher()
	msgSvc := NewMessageService(newFakeFactory(store), pusher, noopLogger{})
	chatSvc := NewChatService(newFakeFactory(store), nil, pusher, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	agent := store.addUser(entity.UserRoleAgent, "agent")
	chatId := seedCustomerChat(store, customer.Id, agent.Id)

	_, err := msgSvc.Send(context.Background(), actorOf(agent), chatId, &dto.SendMessageRequest{Body: "one"})
	require.NoError(t, err)
	_, err = msgSvc.Send(context.Background(), actorOf(agent), chatId, &dto.SendMessageRequest{Body: "two"})
	require.NoError(t, err)

	items, err := chatSvc.ListChats(context.Background(), actorOf(customer), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].UnreadCount)

	_, err = chatSvc.GetChat(context.Background(), actorOf(customer), chatId)
	require.NoError(t, err)

	items, err = chatSvc.ListChats(context.Background(), actorOf(customer), "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), items[0].UnreadCount)
}
