package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"b2b-catalog/models"
	"b2b-catalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrderService(t *testing.T, notifier INotifier) (IOrderService, repository.IOrderRepository) {
	t.Helper()
	repo, err := repository.NewOrderRepository(context.Background(), repository.NewMemoryStateStore())
	require.NoError(t, err)
	return NewOrderService(repo, notifier), repo
}

func discountedUser() models.User {
	return models.User{ID: "u", Email: "u@example.com", Role: models.RoleUser, Status: models.UserActive, Discount: floatPtr(10), PasswordHash: "secret"}
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	// 1. Setup
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.AnythingOfType("models.Order")).Return(nil)
	svc, _ := newTestOrderService(t, notifier)

	// 2. Call
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 100}},
		Quantities: map[string]int{"p1": 10},
	})

	// 3. Assert
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 900.0, order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Nil(t, order.UpdatedAt)
	assert.Empty(t, order.User.PasswordHash)
	notifier.AssertExpectations(t)
}

func TestOrderService_CreateOrder_RejectsSmallQuantity(t *testing.T) {
	notifier := new(MockNotifier)
	svc, repo := newTestOrderService(t, notifier)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 100}},
		Quantities: map[string]int{"p1": 9},
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantities", verr.Field)
	orders, _ := repo.List(context.Background())
	assert.Empty(t, orders)
	notifier.AssertNotCalled(t, "QuoteRequested", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_NotificationFailureKeepsOrder(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc, repo := newTestOrderService(t, notifier)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 50}},
		Quantities: map[string]int{"p1": 20},
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 900.0, stored.TotalAmount)
}

func TestOrderService_CreateOrder_IdempotencyKeyReplays(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.Anything).Return(nil).Once()
	svc, repo := newTestOrderService(t, notifier)

	input := CreateOrderInput{
		User:           discountedUser(),
		Products:       []models.Product{{ID: "p1", Price: 100}},
		Quantities:     map[string]int{"p1": 10},
		IdempotencyKey: "oid-1",
	}
	first, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	orders, _ := repo.List(context.Background())
	assert.Len(t, orders, 1)
	notifier.AssertNumberOfCalls(t, "QuoteRequested", 1)
}

func TestOrderService_UpdateStatus_VisibleThroughOrdersByUser(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.Anything).Return(nil)
	notifier.On("OrderStatusChanged", mock.Anything, mock.Anything, models.OrderPending).Return(nil)
	svc, _ := newTestOrderService(t, notifier)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 100}},
		Quantities: map[string]int{"p1": 10},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderApproved)
	require.NoError(t, err)

	orders, err := svc.OrdersByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderApproved, orders[0].Status)
	assert.NotNil(t, orders[0].UpdatedAt)
	notifier.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_RejectsIllegalTransitions(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.Anything).Return(nil)
	notifier.On("OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newTestOrderService(t, notifier)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 100}},
		Quantities: map[string]int{"p1": 10},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderRejected)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, "missing", models.OrderApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatus("shipped"))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestOrderService_ListOrdersFiltersByStatus(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.Anything).Return(nil)
	notifier.On("OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newTestOrderService(t, notifier)
	ctx := context.Background()

	input := CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 100}},
		Quantities: map[string]int{"p1": 10},
	}
	a, err := svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, a.ID, models.OrderApproved)
	require.NoError(t, err)

	all, err := svc.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := svc.ListOrders(ctx, models.OrderApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, a.ID, approved[0].ID)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.OrderPending, models.OrderApproved))
	assert.True(t, CanTransition(models.OrderPending, models.OrderRejected))
	assert.True(t, CanTransition(models.OrderApproved, models.OrderCompleted))
	assert.False(t, CanTransition(models.OrderCompleted, models.OrderPending))
	assert.False(t, CanTransition(models.OrderRejected, models.OrderApproved))
	assert.False(t, CanTransition(models.OrderPending, models.OrderPending))
	assert.Empty(t, NextStatuses(models.OrderCompleted))
}

// gatedOrderRepo holds every MutateOrder call until all callers have arrived.
type gatedOrderRepo struct {
	repository.IOrderRepository
	arrived *sync.WaitGroup
}

func (r gatedOrderRepo) MutateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error) {
	r.arrived.Done()
	r.arrived.Wait()
	return r.IOrderRepository.MutateOrder(ctx, id, fn)
}

func TestOrderService_UpdateStatus_ConcurrentTerminalMoves(t *testing.T) {
	// 1. Setup: one pending order and two admins deciding at the same time.
	notifier := new(MockNotifier)
	notifier.On("QuoteRequested", mock.Anything, mock.Anything).Return(nil)
	notifier.On("OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	_, repo := newTestOrderService(t, notifier)

	var arrived sync.WaitGroup
	arrived.Add(2)
	svc := NewOrderService(gatedOrderRepo{IOrderRepository: repo, arrived: &arrived}, notifier)

	order, err := NewOrderService(repo, notifier).CreateOrder(context.Background(), CreateOrderInput{
		User:       discountedUser(),
		Products:   []models.Product{{ID: "p1", Price: 100}},
		Quantities: map[string]int{"p1": 10},
	})
	require.NoError(t, err)

	// 2. Call: reject and approve race each other.
	targets := []models.OrderStatus{models.OrderRejected, models.OrderApproved}
	errs := make([]error, len(targets))
	var done sync.WaitGroup
	for i, status := range targets {
		done.Add(1)
		go func(i int, status models.OrderStatus) {
			defer done.Done()
			_, errs[i] = svc.UpdateStatus(context.Background(), order.ID, status)
		}(i, status)
	}
	done.Wait()

	// 3. Assert: exactly one wins and the loser sees an invalid transition.
	winners := 0
	var winner models.OrderStatus
	for i, err := range errs {
		if err == nil {
			winners++
			winner = targets[i]
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	require.Equal(t, 1, winners)
	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, winner, stored.Status)
	notifier.AssertNumberOfCalls(t, "OrderStatusChanged", 1)
}
