package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"b2b-catalog/logger"
	"b2b-catalog/models"
	"b2b-catalog/pricing"
	"b2b-catalog/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateOrderInput is what a quote is made of. Status and id are always assigned by the service.
type CreateOrderInput struct {
	User       models.User
	Products   []models.Product
	Quantities map[string]int
	Notes      string
	// IdempotencyKey makes creation replay-safe: a second call with the same
	// key returns the order created by the first.
	IdempotencyKey string
}

// IOrderService defines the interface for order-related business logic.
type IOrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	// ListOrders returns every order, or only those in status when it is non-empty.
	ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
}

// OrderService implements IOrderService.
type OrderService struct {
	orderRepo repository.IOrderRepository
	notifier  INotifier
	now       func() time.Time
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(repo repository.IOrderRepository, notifier INotifier) IOrderService {
	return &OrderService{orderRepo: repo, notifier: notifier, now: time.Now}
}

// CreateOrder stores a pending order and then announces it. The notification
// is best-effort: once the order is stored, a publish failure is only logged.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	products := make([]models.Product, len(input.Products))
	copy(products, input.Products)
	quantities := make(map[string]int, len(products))
	for _, p := range products {
		quantities[p.ID] = input.Quantities[p.ID]
	}

	order := &models.Order{
		ID:             uuid.NewString(),
		User:           input.User.Public(),
		Products:       products,
		Quantities:     quantities,
		TotalAmount:    pricing.Total(products, quantities, input.User.Discount),
		Status:         models.OrderPending,
		Notes:          input.Notes,
		IdempotencyKey: input.IdempotencyKey,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		// A concurrent call with the same key won the race.
		if errors.Is(err, repository.ErrDuplicate) && input.IdempotencyKey != "" {
			if existing, ferr := s.orderRepo.FindByIdempotencyKey(ctx, input.IdempotencyKey); ferr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	log := logger.GetAppLogger().WithFields(logrus.Fields{"order_id": order.ID, "user_id": order.User.ID})
	log.WithField("total", order.TotalAmount).Info("Order created")
	if err := s.notifier.QuoteRequested(ctx, *order); err != nil {
		log.WithError(err).Warn("Quote notification failed; order kept")
	}
	return order, nil
}

func validateOrderInput(input CreateOrderInput) error {
	if input.User.ID == "" {
		return newValidationError("user", "order needs an owning user")
	}
	if len(input.Products) == 0 {
		return newValidationError("products", "order must contain at least one product")
	}
	seen := make(map[string]bool, len(input.Products))
	for _, p := range input.Products {
		if p.ID == "" {
			return newValidationError("products", "product without id")
		}
		if seen[p.ID] {
			return newValidationError("products", "product %s listed twice", p.ID)
		}
		seen[p.ID] = true
		if p.Price <= 0 {
			return newValidationError("products", "product %s has no price", p.ID)
		}
		q, ok := input.Quantities[p.ID]
		if !ok {
			return newValidationError("quantities", "missing quantity for product %s", p.ID)
		}
		if q < MinOrderQuantity {
			return newValidationError("quantities", "product %s: minimum order quantity is %d, got %d", p.ID, MinOrderQuantity, q)
		}
	}
	for id := range input.Quantities {
		if !seen[id] {
			return newValidationError("quantities", "quantity given for unknown product %s", id)
		}
	}
	return nil
}

// UpdateStatus moves an order along the lifecycle and stamps UpdatedAt.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var previous models.OrderStatus
	// The transition is checked against the stored status while the repository holds its lock.
	order, err := s.orderRepo.MutateOrder(ctx, id, func(o *models.Order) error {
		if err := checkTransition(o.Status, status); err != nil {
			return err
		}
		previous = o.Status
		now := s.now().UTC()
		o.Status = status
		o.UpdatedAt = &now
		return nil
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) || errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	log := logger.GetAppLogger().WithFields(logrus.Fields{"order_id": id, "from": previous, "to": status})
	log.Info("Order status updated")
	if err := s.notifier.OrderStatusChanged(ctx, *order, previous); err != nil {
		log.WithError(err).Warn("Status notification failed")
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderService) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *OrderService) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return orders, nil
	}
	if !status.Valid() {
		return nil, newValidationError("status", "unknown order status %q", status)
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}
