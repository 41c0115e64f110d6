package notifier

import (
	"context"
	"errors"
	"fmt"

	"b2b-catalog/logger"
	"b2b-catalog/models"

	"github.com/sirupsen/logrus"
)

// ErrMalformed marks messages that can never be processed and must be skipped.
var ErrMalformed = errors.New("malformed notification")

// Handler processes one raw Kafka message.
type Handler struct {
	sender       ISender
	salesAddress string
}

// NewHandler creates a Handler that sends quote requests to salesAddress.
func NewHandler(sender ISender, salesAddress string) *Handler {
	return &Handler{sender: sender, salesAddress: salesAddress}
}

// Handle decodes the event and sends the matching e-mail. A decode failure is
// wrapped in ErrMalformed; a send failure is returned as is so the caller can retry.
func (h *Handler) Handle(ctx context.Context, raw []byte) error {
	event, err := DecodeEvent(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var email Email
	switch event.Type {
	case models.EventQuoteRequested:
		email = RenderQuoteEmail(event.Order, h.salesAddress)
	case models.EventOrderStatusChanged:
		email = RenderStatusEmail(event.Order, event.PreviousStatus)
	}

	if err := h.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send %s mail for order %s: %w", event.Type, event.Order.ID, err)
	}
	logger.GetAppLogger().WithFields(logrus.Fields{
		"event_id": event.ID,
		"type":     event.Type,
		"order_id": event.Order.ID,
		"to":       email.To,
	}).Info("Notification sent")
	return nil
}
