package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"b2b-catalog/logger"
	"b2b-catalog/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// INotifier delivers order events to whoever has to act on them (sales mailbox, customer).
// Delivery is best-effort: callers log failures and never roll back on them.
type INotifier interface {
	QuoteRequested(ctx context.Context, order models.Order) error
	OrderStatusChanged(ctx context.Context, order models.Order, previous models.OrderStatus) error
}

// KafkaNotifier publishes JSON event envelopes keyed by order id.
type KafkaNotifier struct {
	kafka       IKafkaService
	quoteTopic  string
	statusTopic string
	now         func() time.Time
}

// NewKafkaNotifier creates a KafkaNotifier.
func NewKafkaNotifier(kafka IKafkaService, quoteTopic, statusTopic string) INotifier {
	return &KafkaNotifier{kafka: kafka, quoteTopic: quoteTopic, statusTopic: statusTopic, now: time.Now}
}

func (n *KafkaNotifier) QuoteRequested(ctx context.Context, order models.Order) error {
	return n.publish(ctx, n.quoteTopic, models.Event{Type: models.EventQuoteRequested, Order: order})
}

func (n *KafkaNotifier) OrderStatusChanged(ctx context.Context, order models.Order, previous models.OrderStatus) error {
	return n.publish(ctx, n.statusTopic, models.Event{
		Type:           models.EventOrderStatusChanged,
		Order:          order,
		PreviousStatus: previous,
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, topic string, event models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	event.ID = uuid.NewString()
	event.OccurredAt = n.now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	if err := n.kafka.PushMessage(topic, event.Order.ID, payload); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// LogNotifier only logs events; used when Kafka is disabled.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() INotifier {
	return LogNotifier{}
}

func (LogNotifier) QuoteRequested(_ context.Context, order models.Order) error {
	logger.GetAppLogger().WithField("order_id", order.ID).Info("Quote requested (notifications disabled)")
	return nil
}

func (LogNotifier) OrderStatusChanged(_ context.Context, order models.Order, previous models.OrderStatus) error {
	logger.GetAppLogger().WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     previous,
		"to":       order.Status,
	}).Info("Order status changed (notifications disabled)")
	return nil
}
