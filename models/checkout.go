package models

import "time"

// CheckoutStatus tracks a hosted payment session.
type CheckoutStatus string

const (
	CheckoutAwaitingPayment CheckoutStatus = "awaiting_payment"
	CheckoutPaid            CheckoutStatus = "paid"
	CheckoutFailed          CheckoutStatus = "failed"
	CheckoutCancelled       CheckoutStatus = "cancelled"
	CheckoutExpired         CheckoutStatus = "expired"
)

// Checkout is a payment session opened for the products a user selected.
// ID doubles as the merchant order reference sent to the payment provider.
// User, Products and Amount are snapshots taken when the session was opened.
type Checkout struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	User          User           `json:"user"`
	Products      []Product      `json:"products"`
	Quantities    map[string]int `json:"quantities"`
	Notes         string         `json:"notes,omitempty"`
	Amount        float64        `json:"amount"`
	Status        CheckoutStatus `json:"status"`
	FailureReason string         `json:"failureReason,omitempty"`
	OrderID       string         `json:"orderId,omitempty"`
	Token         string         `json:"token,omitempty"`
	IframeURL     string         `json:"iframeUrl,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Payment result status values posted by the provider.
const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// PaymentResult is the provider's completion message for a checkout.
type PaymentResult struct {
	MerchantOID string `json:"merchantOid"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	TotalAmount string `json:"totalAmount,omitempty"`
}
