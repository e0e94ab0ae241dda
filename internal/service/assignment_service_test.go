package service

import (
	"context"
	"testing"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/presence"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHandle struct{ key string }

func (h *testHandle) Key() string                              { return h.key }
func (h *testHandle) Push(event string, data interface{}) bool { return true }

func connectAgent(r presence.Registry, departments []int64, isDefault bool) uuid.UUID {
	id := uuid.New()
	r.RegisterAgent(&presence.AgentSession{
		UserID:      id,
		Departments: departments,
		IsDefault:   isDefault,
		Handle:      &testHandle{key: id.String()},
	})
	return id
}

func TestAssignNoAgentOnline(t *testing.T) {
	store := newFakeStore()
	registry := presence.NewMemoryRegistry()
	svc := NewAssignmentService(newFakeFactory(store), registry, nil, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")

	result, err := svc.Assign(context.Background(), customer.Id, 3, 7)
	require.NoError(t, err)
	assert.False(t, result.Assigned)
	assert.Empty(t, store.chats)
	assert.Empty(t, store.participants)
}

func TestAssignNoMatchingDepartmentAndNoDefault(t *testing.T) {
	store := newFakeStore()
	registry := presence.NewMemoryRegistry()
	svc := NewAssignmentService(newFakeFactory(store), registry, nil, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	connectAgent(registry, []int64{1, 2}, false)

	result, err := svc.Assign(context.Background(), customer.Id, 3, 7)
	require.NoError(t, err)
	assert.False(t, result.Assigned)
	assert.Empty(t, store.chats)
}

func TestAssignPrefersDedicatedAgentOverDefault(t *testing.T) {
	store := newFakeStore()
	registry := presence.NewMemoryRegistry()
	svc := NewAssignmentService(newFakeFactory(store), registry, nil, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	connectAgent(registry, nil, true)
	dedicated := connectAgent(registry, []int64{3}, false)

	result, err := svc.Assign(context.Background(), customer.Id, 3, 7)
	require.NoError(t, err)
	assert.True(t, result.Assigned)
	assert.Equal(t, dedicated, result.AgentId)
	assert.True(t, result.Created)

	details := store.details[result.ChatId]
	require.NotNil(t, details)
	assert.Equal(t, entity.ChatStatusPending, details.Status)
	assert.Equal(t, int64(3), details.DepartmentId)
	assert.Equal(t, int64(7), details.CategoryId)
}

func TestAssignFallsBackToDefaultAgent(t *testing.T) {
	store := newFakeStore()
	registry := presence.NewMemoryRegistry()
	svc := NewAssignmentService(newFakeFactory(store), registry, nil, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	connectAgent(registry, []int64{1}, false)
	defaultAgent := connectAgent(registry, nil, true)

	result, err := svc.Assign(context.Background(), customer.Id, 3, 7)
	require.NoError(t, err)
	assert.True(t, result.Assigned)
	assert.Equal(t, defaultAgent, result.AgentId)
}

func TestAssignReusesExistingPairChat(t *testing.T) {
	store := newFakeStore()
	registry := presence.NewMemoryRegistry()
	svc := NewAssignmentService(newFakeFactory(store), registry, nil, noopLogger{})

	customer := store.addUser(entity.UserRoleCustomer, "customer")
	connectAgent(registry, []int64{3}, false)

	first, err := svc.Assign(context.Background(), customer.Id, 3, 7)
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := svc.Assign(context.Background(), customer.Id, 3, 7)
	require.NoError(t, err)
	assert.True(t, second.Assigned)
	assert.False(t, second.Created)
	assert.Equal(t, first.ChatId, second.ChatId)
	assert.Len(t, store.chats, 1)
	assert.Len(t, store.participants, 2)
}
