// Package notifier turns order events read from Kafka into e-mails.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"b2b-catalog/models"
)

// DecodeEvent strictly decodes an event envelope. Unknown fields and unknown
// event types are rejected.
func DecodeEvent(raw []byte) (*models.Event, error) {
	var event models.Event
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	switch event.Type {
	case models.EventQuoteRequested, models.EventOrderStatusChanged:
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", event.Type)
	}
	if event.Order.ID == "" {
		return nil, fmt.Errorf("decode event %s: missing order", event.ID)
	}
	return &event, nil
}
