package service

import (
	"context"
	"testing"

	"github.com/dukerupert/seshop/internal/auth"
	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() domain.UserService {
	store := repository.NewMemoryStore(repository.Options{})
	return NewUserService(store, auth.NewPasswordHasher(bcrypt.MinCost), nil)
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService()

	user, err := svc.CreateUser(ctx, domain.CreateUserParams{
		Name:     "Ann",
		Email:    " ann@x.com ",
		Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Equal(t, domain.DefaultUserPhoto, user.Photo)
	assert.NotEqual(t, "long-enough", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, domain.CreateUserParams{Email: "ann@x.com", Password: "long-enough"})
		assert.ErrorIs(t, err, domain.ErrEmailInUse)
		assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, domain.CreateUserParams{Email: "a", Password: "short"})
		require.Error(t, err)
		fields := domain.GetValidationFields(err)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})

	t.Run("keeps explicit photo", func(t *testing.T) {
		u, err := svc.CreateUser(ctx, domain.CreateUserParams{
			Email:    "bob@x.com",
			Password: "long-enough",
			Photo:    "https://cdn.example.com/bob.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/bob.png", u.Photo)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService()

	_, err := svc.CreateUser(ctx, domain.CreateUserParams{Email: "ann@x.com", Password: "long-enough"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ann@x.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)

	_, err = svc.Authenticate(ctx, "ann@x.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = svc.Authenticate(ctx, "nobody@x.com", "long-enough")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestUserService_Roles(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService()

	user, err := svc.CreateUser(ctx, domain.CreateUserParams{Email: "ann@x.com", Password: "long-enough"})
	require.NoError(t, err)

	isAdmin, err := svc.IsAdmin(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	promoted, err := svc.ToggleRole(ctx, user.ID, "user")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	isAdmin, err = svc.IsAdmin(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	demoted, err := svc.ToggleRole(ctx, user.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, demoted.Role)

	_, err = svc.ToggleRole(ctx, user.ID, "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.ToggleRole(ctx, "missing", "user")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.IsAdmin(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService()

	ann, err := svc.CreateUser(ctx, domain.CreateUserParams{Name: "Ann", Email: "ann@x.com", Password: "long-enough"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, domain.CreateUserParams{Email: "bob@x.com", Password: "long-enough"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, ann.ID, domain.UpdateUserParams{Name: "Ann B"})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, "ann@x.com", updated.Email)
	assert.Equal(t, ann.PasswordHash, updated.PasswordHash)

	_, err = svc.UpdateUser(ctx, ann.ID, domain.UpdateUserParams{Email: "bob@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailInUse)

	_, err = svc.UpdateUser(ctx, ann.ID, domain.UpdateUserParams{Password: "short"})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.UpdateUser(ctx, ann.ID, domain.UpdateUserParams{Password: "a-new-password"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "ann@x.com", "a-new-password")
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, "missing", domain.UpdateUserParams{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	deleted, err := svc.DeleteUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, deleted.ID)

	_, err = svc.DeleteUser(ctx, ann.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.GetUser(ctx, ann.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
