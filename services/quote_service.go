package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"b2b-catalog/logger"
	"b2b-catalog/models"
	"b2b-catalog/payment"
	"b2b-catalog/pricing"
	"b2b-catalog/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IPaymentProvider creates hosted payment sessions.
type IPaymentProvider interface {
	CreatePaymentToken(ctx context.Context, req payment.TokenRequest) (*payment.Token, error)
}

// IQuoteService turns a user's selection into a paid quote.
type IQuoteService interface {
	// StartCheckout snapshots the selection and opens a payment session for it.
	StartCheckout(ctx context.Context, userID, notes, userIP string) (*models.Checkout, error)
	// ConfirmPayment consumes the provider's completion message. On success it
	// returns the order, which is created at most once per checkout.
	ConfirmPayment(ctx context.Context, result models.PaymentResult) (*models.Order, error)
	GetCheckout(ctx context.Context, userID, id string) (*models.Checkout, error)
	CancelCheckout(ctx context.Context, userID, id string) (*models.Checkout, error)
	// ExpireStaleCheckouts marks sessions still awaiting payment after the configured limit as expired.
	ExpireStaleCheckouts(ctx context.Context, now time.Time) (int, error)
}

// QuoteService implements IQuoteService.
type QuoteService struct {
	users       repository.IUserRepository
	catalog     repository.ICatalogRepository
	checkouts   repository.ICheckoutRepository
	selections  ISelectionService
	orders      IOrderService
	provider    IPaymentProvider
	expireAfter time.Duration
	now         func() time.Time
}

// NewQuoteService creates a new QuoteService instance.
func NewQuoteService(
	users repository.IUserRepository,
	catalog repository.ICatalogRepository,
	checkouts repository.ICheckoutRepository,
	selections ISelectionService,
	orders IOrderService,
	provider IPaymentProvider,
	expireAfter time.Duration,
) IQuoteService {
	return &QuoteService{
		users:       users,
		catalog:     catalog,
		checkouts:   checkouts,
		selections:  selections,
		orders:      orders,
		provider:    provider,
		expireAfter: expireAfter,
		now:         time.Now,
	}
}

// errCheckoutClosed marks a checkout that is no longer awaiting payment.
var errCheckoutClosed = errors.New("checkout is closed")

// merchantOID returns an alphanumeric reference; the provider rejects other characters.
func merchantOID() string {
	return "ORD" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *QuoteService) StartCheckout(ctx context.Context, userID, notes, userIP string) (*models.Checkout, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrForbidden
	}

	quantities := s.selections.Quantities(userID)
	if len(quantities) == 0 {
		return nil, newValidationError("products", "no products selected")
	}
	products := make([]models.Product, 0, len(quantities))
	basket := make([]payment.BasketItem, 0, len(quantities))
	for _, id := range sortedKeys(quantities) {
		p, err := s.catalog.FindProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newValidationError("products", "product %s is no longer available", id)
			}
			return nil, err
		}
		if quantities[id] < MinOrderQuantity {
			return nil, newValidationError("quantities", "product %s: minimum order quantity is %d", id, MinOrderQuantity)
		}
		products = append(products, *p)
		basket = append(basket, payment.BasketItem{
			Name:     p.Name,
			Price:    pricing.DiscountedPrice(p.Price, user.Discount),
			Quantity: quantities[id],
		})
	}

	now := s.now().UTC()
	checkout := &models.Checkout{
		ID:         merchantOID(),
		UserID:     user.ID,
		User:       user.Public(),
		Products:   products,
		Quantities: quantities,
		Notes:      strings.TrimSpace(notes),
		Amount:     pricing.Total(products, quantities, user.Discount),
		Status:     models.CheckoutAwaitingPayment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	token, err := s.provider.CreatePaymentToken(ctx, payment.TokenRequest{
		MerchantOID: checkout.ID,
		Email:       user.Email,
		UserName:    user.Name,
		UserAddress: user.Company,
		UserPhone:   user.Phone,
		UserIP:      userIP,
		Amount:      checkout.Amount,
		Basket:      basket,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The caller went away while the token was in flight; drop whatever came back.
		return nil, ctxErr
	}
	if err != nil {
		logger.GetAppLogger().WithError(err).WithField("user_id", userID).Error("Payment token request failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	checkout.Token = token.Token
	checkout.IframeURL = token.IframeURL

	if err := s.checkouts.Create(ctx, checkout); err != nil {
		return nil, err
	}
	logger.GetAppLogger().WithFields(logrus.Fields{
		"checkout_id": checkout.ID,
		"user_id":     userID,
		"amount":      checkout.Amount,
	}).Info("Checkout started")
	return checkout, nil
}

func (s *QuoteService) ConfirmPayment(ctx context.Context, result models.PaymentResult) (*models.Order, error) {
	checkout, err := s.checkouts.FindByID(ctx, result.MerchantOID)
	if err != nil {
		return nil, err
	}
	log := logger.GetAppLogger().WithFields(logrus.Fields{"checkout_id": checkout.ID, "payment_status": result.Status})

	switch result.Status {
	case models.PaymentFailed:
		_, err := s.checkouts.Mutate(ctx, checkout.ID, func(c *models.Checkout) error {
			if c.Status != models.CheckoutAwaitingPayment {
				return fmt.Errorf("checkout %s is %s: %w", c.ID, c.Status, errCheckoutClosed)
			}
			c.Status = models.CheckoutFailed
			c.FailureReason = result.Reason
			c.UpdatedAt = s.now().UTC()
			return nil
		})
		switch {
		case errors.Is(err, errCheckoutClosed):
			log.WithError(err).Info("Ignoring late payment failure")
		case err != nil:
			return nil, err
		default:
			log.WithField("reason", result.Reason).Warn("Payment failed")
		}
		return nil, &PaymentFailedError{CheckoutID: checkout.ID, Reason: result.Reason}

	case models.PaymentSuccess:
		if checkout.Status == models.CheckoutPaid && checkout.OrderID != "" {
			return s.orders.GetOrder(ctx, checkout.OrderID)
		}
		if checkout.Status != models.CheckoutAwaitingPayment {
			// The money was captured, so the order is recorded even for a cancelled or expired session.
			log.WithField("checkout_status", checkout.Status).Warn("Payment captured for a closed checkout")
		}

		order, err := s.orders.CreateOrder(ctx, CreateOrderInput{
			User:           checkout.User,
			Products:       checkout.Products,
			Quantities:     checkout.Quantities,
			Notes:          checkout.Notes,
			IdempotencyKey: checkout.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record order for checkout %s: %w", checkout.ID, err)
		}

		if _, err := s.checkouts.Mutate(ctx, checkout.ID, func(c *models.Checkout) error {
			c.Status = models.CheckoutPaid
			c.OrderID = order.ID
			c.FailureReason = ""
			c.UpdatedAt = s.now().UTC()
			return nil
		}); err != nil {
			// The order exists and the idempotency key makes a replay return it.
			log.WithError(err).Error("Failed to mark checkout paid")
		}
		s.selections.Clear(checkout.UserID)
		log.WithField("order_id", order.ID).Info("Payment confirmed")
		return order, nil

	default:
		return nil, newValidationError("status", "unknown payment status %q", result.Status)
	}
}

func (s *QuoteService) GetCheckout(ctx context.Context, userID, id string) (*models.Checkout, error) {
	checkout, err := s.checkouts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != "" && checkout.UserID != userID {
		return nil, fmt.Errorf("checkout %s: %w", id, ErrNotFound)
	}
	return checkout, nil
}

func (s *QuoteService) CancelCheckout(ctx context.Context, userID, id string) (*models.Checkout, error) {
	if _, err := s.GetCheckout(ctx, userID, id); err != nil {
		return nil, err
	}
	checkout, err := s.checkouts.Mutate(ctx, id, func(c *models.Checkout) error {
		if c.Status != models.CheckoutAwaitingPayment {
			return fmt.Errorf("checkout %s is %s: %w", id, c.Status, ErrInvalidTransition)
		}
		c.Status = models.CheckoutCancelled
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checkout, nil
}

func (s *QuoteService) ExpireStaleCheckouts(ctx context.Context, now time.Time) (int, error) {
	if s.expireAfter <= 0 {
		return 0, nil
	}
	awaiting, err := s.checkouts.ListByStatus(ctx, models.CheckoutAwaitingPayment)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, candidate := range awaiting {
		if now.Sub(candidate.CreatedAt) < s.expireAfter {
			continue
		}
		_, err := s.checkouts.Mutate(ctx, candidate.ID, func(c *models.Checkout) error {
			// a payment or cancel may have landed since the listing
			if c.Status != models.CheckoutAwaitingPayment {
				return errCheckoutClosed
			}
			c.Status = models.CheckoutExpired
			c.UpdatedAt = now.UTC()
			return nil
		})
		if errors.Is(err, errCheckoutClosed) {
			continue
		}
		if err != nil {
			return expired, err
		}
		expired++
	}
	if expired > 0 {
		logger.GetAppLogger().WithField("count", expired).Info("Expired stale checkouts")
	}
	return expired, nil
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
