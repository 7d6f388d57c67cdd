package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorturl/auth"
	"shorturl/models"
	"shorturl/repository"
)

func newUserService() (*UserService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewUserService(store.Users(), tokens), store
}

func TestRegister_DefaultsUsernameToEmail(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Register(context.Background(), "a@example.com", "", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, user.CheckPassword("secret123"))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "", "secret123")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "a@example.com", "", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "a@example.com", "", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@example.com", "someone-else", "secret123")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLogin_UniformInvalidCredentials(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "", "secret123")
	require.NoError(t, err)

	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)

	_, _, wrongPassword := svc.Login(ctx, "a@example.com", "wrong-pass")
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)

	// Identical outcome either way, so responses cannot leak which part failed.
	assert.Equal(t, unknownEmail.Error(), wrongPassword.Error())

	token, user, err := svc.Login(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "a@example.com", user.Email)
}

func TestUpdateRole(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@example.com", "", "secret123")
	require.NoError(t, err)

	_, err = svc.UpdateRole(ctx, user.ID, "superuser")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateRole(ctx, 9999, "admin")
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateRole(ctx, user.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	stored, err := store.Users().ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
}
