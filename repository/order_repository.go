package repository

import (
	"context"
	"fmt"
	"sync"

	"b2b-catalog/models"
)

// IOrderRepository defines the interface for order data operations.
type IOrderRepository interface {
	// CreateOrder stores a new order in front of the existing ones. It fails
	// with ErrDuplicate when the id or a non-empty idempotency key is taken.
	CreateOrder(ctx context.Context, order *models.Order) error
	// MutateOrder applies fn to the stored order under the write lock and
	// persists the result. Nothing is written when fn returns an error.
	MutateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

// OrderRepository implements IOrderRepository over the orders record, newest first.
type OrderRepository struct {
	mu     sync.RWMutex
	store  IStateStore
	orders []models.Order
}

// NewOrderRepository creates a new OrderRepository instance.
func NewOrderRepository(ctx context.Context, store IStateStore) (IOrderRepository, error) {
	r := &OrderRepository{store: store}
	if _, err := store.Load(ctx, KeyOrders, &r.orders); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *OrderRepository) commit(ctx context.Context, next []models.Order) error {
	if err := r.store.Save(ctx, KeyOrders, next); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	r.orders = next
	return nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == order.ID {
			return fmt.Errorf("order %s: %w", order.ID, ErrDuplicate)
		}
		if order.IdempotencyKey != "" && o.IdempotencyKey == order.IdempotencyKey {
			return fmt.Errorf("order with idempotency key %s: %w", order.IdempotencyKey, ErrDuplicate)
		}
	}
	next := make([]models.Order, 0, len(r.orders)+1)
	next = append(next, *order)
	next = append(next, r.orders...)
	return r.commit(ctx, next)
}

func (r *OrderRepository) MutateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := append([]models.Order(nil), r.orders...)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if err := fn(&next[i]); err != nil {
			return nil, err
		}
		if err := r.commit(ctx, next); err != nil {
			return nil, err
		}
		updated := next[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			found := o
			return &found, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
}

func (r *OrderRepository) FindByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if key != "" {
		for _, o := range r.orders {
			if o.IdempotencyKey == key {
				found := o
				return &found, nil
			}
		}
	}
	return nil, fmt.Errorf("order with idempotency key %s: %w", key, ErrNotFound)
}

func (r *OrderRepository) FindByUserID(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []models.Order{}
	for _, o := range r.orders {
		if o.User.ID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (r *OrderRepository) List(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Order{}, r.orders...), nil
}
