package models

import "time"

// OrderStatus is the lifecycle state of an order (a quote is a pending order).
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderRejected  OrderStatus = "rejected"
	OrderCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderApproved, OrderRejected, OrderCompleted:
		return true
	}
	return false
}

// Order is a quote request. User and Products are snapshots taken at creation time.
type Order struct {
	ID             string         `json:"id"`
	User           User           `json:"user"`
	Products       []Product      `json:"products"`
	Quantities     map[string]int `json:"quantities"`
	TotalAmount    float64        `json:"totalAmount"`
	Status         OrderStatus    `json:"status"`
	Notes          string         `json:"notes,omitempty"`
	IdempotencyKey string         `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}
