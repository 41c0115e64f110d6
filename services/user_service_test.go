package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func newTestUserService(t *testing.T) IUserService {
	t.Helper()
	repo, err := repository.NewUserRepository(context.Background(), repository.NewMemoryStateStore())
	require.NoError(t, err)
	return NewUserService(repo)
}

func TestUserService_AuthenticateSeededUser(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Authenticate(context.Background(), "USER@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "2", user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.NotNil(t, user.LastLogin)

	_, err = svc.Authenticate(context.Background(), "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_DeactivatedUserCannotAuthenticate(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.DeactivateUser(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.UserInactive, user.Status)

	_, err = svc.Authenticate(ctx, "user@example.com", "password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserService_CreateAndUpdate(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserInput{Email: strp("not-an-email"), Name: strp("X"), Password: strp("secret1")})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)

	_, err = svc.CreateUser(ctx, UserInput{Email: strp("Admin@Example.com"), Name: strp("X"), Password: strp("secret1")})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.CreateUser(ctx, UserInput{Email: strp("new@example.com"), Name: strp("New"), Password: strp("secret1"), Discount: floatPtr(120)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "discount", verr.Field)

	created, err := svc.CreateUser(ctx, UserInput{Email: strp("new@example.com"), Name: strp("New"), Password: strp("secret1"), Discount: floatPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, models.UserActive, created.Status)

	updated, err := svc.UpdateUser(ctx, created.ID, UserInput{Company: strp("ACME"), ClearDiscount: true})
	require.NoError(t, err)
	assert.Equal(t, "ACME", updated.Company)
	assert.Nil(t, updated.Discount)

	_, err = svc.Authenticate(ctx, "new@example.com", "secret1")
	assert.NoError(t, err)

	_, err = svc.UpdateUser(ctx, "missing", UserInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, expires, err := m.Issue(models.User{ID: "2", Role: models.RoleUser})
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, err = NewJWTManager("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired := NewJWTManager("secret", -time.Minute)
	old, _, err := expired.Issue(models.User{ID: "2"})
	require.NoError(t, err)
	_, err = expired.Verify(old)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
