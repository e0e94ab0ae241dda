package service

import (
	"context"
	"testing"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService(store *fakeStore, pusher *fakePusher) *notificationService {
	svc := NewNotificationService(newFakeFactory(store), nil, pusher, nil, noopLogger{})
	return svc.(*notificationService)
}

func TestHandleEventSelfTarget(t *testing.T) {
	store := newFakeStore()
	store.addNotifType(events.TypeChatTakenOver, "Your conversation was taken over by another support agent", "SELF")
	pusher := newFakePusher()
	svc := newTestNotificationService(store, pusher)

	customer := store.addUser(entity.UserRoleCustomer, "customer")

	event := events.New(events.TypeChatTakenOver, map[string]interface{}{
		"user_id": customer.Id.String(),
	})
	require.NoError(t, svc.handleEvent(context.Background(), event))

	require.Len(t, store.notifications, 1)
	assert.Equal(t, customer.Id, store.notifications[0].UserID)
	assert.Equal(t, []string{"notification"}, pusher.eventsFor(customer.Id))
}

func TestHandleEventAdminTargetFansOut(t *testing.T) {
	store := newFakeStore()
	store.addNotifType(events.TypeGroupChatCreated, "Group chat \"{name}\" was created", "ADMIN")
	pusher := newFakePusher()
	svc := newTestNotificationService(store, pusher)

	adminA := store.addUser(entity.UserRoleAdmin, "admin-a")
	adminB := store.addUser(entity.UserRoleAdmin, "admin-b")
	store.addUser(entity.UserRoleAgent, "agent")

	event := events.New(events.TypeGroupChatCreated, map[string]interface{}{"name": "escalations"})
	require.NoError(t, svc.handleEvent(context.Background(), event))

	require.Len(t, store.notifications, 2)
	assert.Equal(t, "Group chat \"escalations\" was created", store.notifications[0].Message)
	assert.Len(t, pusher.eventsFor(adminA.Id), 1)
	assert.Len(t, pusher.eventsFor(adminB.Id), 1)
}

func TestHandleEventUnknownCodeIsSkipped(t *testing.T) {
	store := newFakeStore()
	pusher := newFakePusher()
	svc := newTestNotificationService(store, pusher)

	event := events.New("SOMETHING_NEW", map[string]interface{}{})
	require.NoError(t, svc.handleEvent(context.Background(), event))
	assert.Empty(t, store.notifications)
}

func TestNotificationInboxFlow(t *testing.T) {
	store := newFakeStore()
	store.addNotifType(events.TypeChatStatusChanged, "Your support request is now {status}", "SELF")
	pusher := newFakePusher()
	svc := newTestNotificationService(store, pusher)

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		event := events.New(events.TypeChatStatusChanged, map[string]interface{}{
			"user_id": customer.Id.String(),
			"status":  "processing",
		})
		require.NoError(t, svc.handleEvent(ctx, event))
	}

	items, total, err := svc.GetNotifications(ctx, customer.Id, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)
	assert.Equal(t, "Your support request is now processing", items[0].Message)

	count, err := svc.GetUnreadCount(ctx, customer.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkAsRead(ctx, store.notifications[0].ID))
	count, _ = svc.GetUnreadCount(ctx, customer.Id)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAllAsRead(ctx, customer.Id))
	count, _ = svc.GetUnreadCount(ctx, customer.Id)
	assert.Equal(t, int64(0), count)
}

func TestRenderTemplateLeavesUnknownPlaceholders(t *testing.T) {
	out := renderTemplate("{actor} did {something}", map[string]string{"actor": "Ana"})
	assert.Equal(t, "Ana did {something}", out)
}
