package models

import "time"

// Event types published to Kafka.
const (
	EventQuoteRequested     = "quote.requested"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the envelope of every message on the notification topics.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Order      Order     `json:"order"`
	// PreviousStatus is set for order.status_changed only.
	PreviousStatus OrderStatus `json:"previousStatus,omitempty"`
}
