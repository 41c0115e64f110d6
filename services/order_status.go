package services

import (
	"fmt"

	"b2b-catalog/models"
)

// orderTransitions lists the statuses each status may move to. Rejected and
// completed are terminal.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:  {models.OrderApproved, models.OrderRejected},
	models.OrderApproved: {models.OrderCompleted},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus(nil), orderTransitions[s]...)
}

func checkTransition(from, to models.OrderStatus) error {
	if !to.Valid() {
		return newValidationError("status", "unknown order status %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}
