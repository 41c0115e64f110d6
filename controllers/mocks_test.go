package controllers

import (
	"context"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/payment"

	"github.com/stretchr/testify/mock"
)

// MockQuoteService is a mock implementation of services.IQuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) StartCheckout(ctx context.Context, userID, notes, userIP string) (*models.Checkout, error) {
	args := m.Called(ctx, userID, notes, userIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checkout), args.Error(1)
}

func (m *MockQuoteService) ConfirmPayment(ctx context.Context, result models.PaymentResult) (*models.Order, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockQuoteService) GetCheckout(ctx context.Context, userID, id string) (*models.Checkout, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checkout), args.Error(1)
}

func (m *MockQuoteService) CancelCheckout(ctx context.Context, userID, id string) (*models.Checkout, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checkout), args.Error(1)
}

func (m *MockQuoteService) ExpireStaleCheckouts(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// MockVerifier is a mock implementation of ICallbackVerifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyCallback(cb payment.Callback) error {
	return m.Called(cb).Error(0)
}
