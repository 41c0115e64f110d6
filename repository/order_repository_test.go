package repository

import (
	"context"
	"errors"
	"testing"

	"b2b-catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_PrependsAndFiltersByUser(t *testing.T) {
	ctx := context.Background()
	repo, err := NewOrderRepository(ctx, NewMemoryStateStore())
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "o1", User: models.User{ID: "u1"}}))
	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "o2", User: models.User{ID: "u2"}}))
	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "o3", User: models.User{ID: "u1"}}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "o3", all[0].ID)

	mine, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o3", mine[0].ID)
	assert.Equal(t, "o1", mine[1].ID)
}

func TestOrderRepository_IdempotencyKeyIsUnique(t *testing.T) {
	ctx := context.Background()
	repo, err := NewOrderRepository(ctx, NewMemoryStateStore())
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "o1", IdempotencyKey: "ORD1"}))
	err = repo.CreateOrder(ctx, &models.Order{ID: "o2", IdempotencyKey: "ORD1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := repo.FindByIdempotencyKey(ctx, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, "o1", found.ID)
}

func TestOrderRepository_MutateOrder(t *testing.T) {
	ctx := context.Background()
	repo, err := NewOrderRepository(ctx, NewMemoryStateStore())
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "o1", Status: models.OrderPending}))

	_, err = repo.MutateOrder(ctx, "missing", func(*models.Order) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	// A rejecting fn leaves the stored order untouched.
	_, err = repo.MutateOrder(ctx, "o1", func(o *models.Order) error {
		o.Status = models.OrderApproved
		return errors.New("refused")
	})
	assert.EqualError(t, err, "refused")
	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)

	updated, err := repo.MutateOrder(ctx, "o1", func(o *models.Order) error {
		o.Status = models.OrderApproved
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderApproved, updated.Status)
}

func TestCheckoutRepository_Mutate(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCheckoutRepository(ctx, NewMemoryStateStore())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.Checkout{ID: "c1", Status: models.CheckoutAwaitingPayment}))

	_, err = repo.Mutate(ctx, "c1", func(c *models.Checkout) error {
		c.Status = models.CheckoutPaid
		return errors.New("refused")
	})
	assert.Error(t, err)
	awaiting, err := repo.ListByStatus(ctx, models.CheckoutAwaitingPayment)
	require.NoError(t, err)
	assert.Len(t, awaiting, 1)

	paid, err := repo.Mutate(ctx, "c1", func(c *models.Checkout) error {
		c.Status = models.CheckoutPaid
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutPaid, paid.Status)

	_, err = repo.Mutate(ctx, "missing", func(*models.Checkout) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_SeedAndUniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo, err := NewUserRepository(ctx, NewMemoryStateStore())
	require.NoError(t, err)

	admin, err := repo.FindByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.PasswordHash)

	err = repo.Create(ctx, &models.User{ID: "3", Email: "user@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
