package services

import (
	"context"

	"b2b-catalog/models"
	"b2b-catalog/payment"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of INotifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) QuoteRequested(ctx context.Context, order models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockNotifier) OrderStatusChanged(ctx context.Context, order models.Order, previous models.OrderStatus) error {
	args := m.Called(ctx, order, previous)
	return args.Error(0)
}

// MockKafkaService is a mock implementation of IKafkaService.
type MockKafkaService struct {
	mock.Mock
}

func (m *MockKafkaService) PushMessage(topic, key string, message []byte) error {
	args := m.Called(topic, key, message)
	return args.Error(0)
}

func (m *MockKafkaService) Close() error {
	return m.Called().Error(0)
}

// MockPaymentProvider is a mock implementation of IPaymentProvider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreatePaymentToken(ctx context.Context, req payment.TokenRequest) (*payment.Token, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Token), args.Error(1)
}

func floatPtr(f float64) *float64 { return &f }
