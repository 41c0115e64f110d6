package repository

import (
	"context"
	"fmt"
	"sync"

	"b2b-catalog/models"
)

// ICheckoutRepository stores payment sessions.
type ICheckoutRepository interface {
	Create(ctx context.Context, checkout *models.Checkout) error
	// Mutate applies fn to the stored checkout under the write lock and
	// persists the result. Nothing is written when fn returns an error.
	Mutate(ctx context.Context, id string, fn func(*models.Checkout) error) (*models.Checkout, error)
	FindByID(ctx context.Context, id string) (*models.Checkout, error)
	ListByStatus(ctx context.Context, status models.CheckoutStatus) ([]models.Checkout, error)
}

// CheckoutRepository implements ICheckoutRepository over the checkouts record.
type CheckoutRepository struct {
	mu        sync.RWMutex
	store     IStateStore
	checkouts []models.Checkout
}

// NewCheckoutRepository creates a new CheckoutRepository instance.
func NewCheckoutRepository(ctx context.Context, store IStateStore) (ICheckoutRepository, error) {
	r := &CheckoutRepository{store: store}
	if _, err := store.Load(ctx, KeyCheckouts, &r.checkouts); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CheckoutRepository) commit(ctx context.Context, next []models.Checkout) error {
	if err := r.store.Save(ctx, KeyCheckouts, next); err != nil {
		return fmt.Errorf("failed to save checkouts: %w", err)
	}
	r.checkouts = next
	return nil
}

func (r *CheckoutRepository) Create(ctx context.Context, checkout *models.Checkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.checkouts {
		if c.ID == checkout.ID {
			return fmt.Errorf("checkout %s: %w", checkout.ID, ErrDuplicate)
		}
	}
	next := append(append([]models.Checkout(nil), r.checkouts...), *checkout)
	return r.commit(ctx, next)
}

func (r *CheckoutRepository) Mutate(ctx context.Context, id string, fn func(*models.Checkout) error) (*models.Checkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := append([]models.Checkout(nil), r.checkouts...)
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
	return nil, fmt.Errorf("checkout %s: %w", id, ErrNotFound)
}

func (r *CheckoutRepository) FindByID(_ context.Context, id string) (*models.Checkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.checkouts {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("checkout %s: %w", id, ErrNotFound)
}

func (r *CheckoutRepository) ListByStatus(_ context.Context, status models.CheckoutStatus) ([]models.Checkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []models.Checkout
	for _, c := range r.checkouts {
		if c.Status == status {
			result = append(result, c)
		}
	}
	return result, nil
}
