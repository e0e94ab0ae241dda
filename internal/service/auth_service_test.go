package service

import (
	"context"
	"testing"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedCredentials(t *testing.T, store *fakeStore, user *entity.User, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	user.PasswordHash = &hashStr
}

func TestLoginAndVerifyTokenRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	store := newFakeStore()
	svc := NewAuthService(newFakeFactory(store))

	agent := store.addUser(entity.UserRoleAgent, "agent")
	seedCredentials(t, store, agent, "hunter2")

	res, err := svc.Login(context.Background(), &dto.LoginRequest{Email: agent.Email, Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, agent.Id, res.UserId)
	assert.Equal(t, "agent", res.Role)

	actor, err := svc.VerifyToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, agent.Id, actor.Id)
	assert.Equal(t, entity.UserRoleAgent, actor.Role)
	assert.True(t, actor.Role.IsStaff())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	store := newFakeStore()
	svc := NewAuthService(newFakeFactory(store))

	user := store.addUser(entity.UserRoleCustomer, "customer")
	seedCredentials(t, store, user, "correct")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "wrong"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(newFakeFactory(store))

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@test.dev", Password: "x"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLoginRejectsBlockedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	store := newFakeStore()
	svc := NewAuthService(newFakeFactory(store))

	user := store.addUser(entity.UserRoleCustomer, "blocked")
	seedCredentials(t, store, user, "secret")
	user.Status = entity.UserStatusBlocked

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "secret"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	store := newFakeStore()
	svc := NewAuthService(newFakeFactory(store))

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.VerifyToken(token)
		appErr, ok := apperror.As(err)
		require.True(t, ok, "token %q", token)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_one")

	store := newFakeStore()
	svc := NewAuthService(newFakeFactory(store))

	user := store.addUser(entity.UserRoleAgent, "agent")
	seedCredentials(t, store, user, "pw")

	res, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "pw"})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret_two")
	_, err = svc.VerifyToken(res.AccessToken)
	assert.Error(t, err)
}
