package services

import (
	"errors"
	"fmt"

	"b2b-catalog/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrDuplicate         = repository.ErrDuplicate
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrForbidden         = errors.New("forbidden")
	ErrPaymentProvider   = errors.New("payment provider unavailable")
)

// ValidationError reports input rejected at the boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PaymentFailedError carries the reason the provider gave for a declined payment.
type PaymentFailedError struct {
	CheckoutID string
	Reason     string
}

func (e *PaymentFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("payment for checkout %s failed", e.CheckoutID)
	}
	return fmt.Sprintf("payment for checkout %s failed: %s", e.CheckoutID, e.Reason)
}
