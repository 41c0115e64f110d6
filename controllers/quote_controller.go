package controllers

import (
	"errors"

	"b2b-catalog/logger"
	"b2b-catalog/payment"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ICallbackVerifier authenticates provider callbacks.
type ICallbackVerifier interface {
	VerifyCallback(cb payment.Callback) error
}

// QuoteController handles checkouts and the payment provider callback.
type QuoteController struct {
	quotes   services.IQuoteService
	verifier ICallbackVerifier
}

// NewQuoteController creates a new QuoteController instance.
func NewQuoteController(quotes services.IQuoteService, verifier ICallbackVerifier) *QuoteController {
	return &QuoteController{quotes: quotes, verifier: verifier}
}

type checkoutRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// StartCheckout handles POST /checkouts: the current selection is priced and a payment page opened.
func (qc *QuoteController) StartCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	checkout, err := qc.quotes.StartCheckout(c.UserContext(), currentUserID(c), req.Notes, c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(checkout)
}

// GetCheckout handles GET /checkouts/:id. Admins may read any checkout.
func (qc *QuoteController) GetCheckout(c *fiber.Ctx) error {
	owner := currentUserID(c)
	if isAdmin(c) {
		owner = ""
	}
	checkout, err := qc.quotes.GetCheckout(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(checkout)
}

// CancelCheckout handles DELETE /checkouts/:id.
func (qc *QuoteController) CancelCheckout(c *fiber.Ctx) error {
	checkout, err := qc.quotes.CancelCheckout(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(checkout)
}

// PaymentCallback handles POST /payments/callback. The provider keeps
// retrying until it reads a plain "OK", so only failures worth a retry
// answer otherwise.
func (qc *QuoteController) PaymentCallback(c *fiber.Ctx) error {
	cb := payment.Callback{
		MerchantOID:      c.FormValue("merchant_oid"),
		Status:           c.FormValue("status"),
		TotalAmount:      c.FormValue("total_amount"),
		Hash:             c.FormValue("hash"),
		FailedReasonCode: c.FormValue("failed_reason_code"),
		FailedReasonMsg:  c.FormValue("failed_reason_msg"),
		PaymentType:      c.FormValue("payment_type"),
		Currency:         c.FormValue("currency"),
	}
	log := logger.GetAppLogger().WithFields(logrus.Fields{"merchant_oid": cb.MerchantOID, "status": cb.Status})

	if err := qc.verifier.VerifyCallback(cb); err != nil {
		log.Warn("Rejected payment callback with bad hash")
		return c.Status(fiber.StatusBadRequest).SendString("bad hash")
	}

	order, err := qc.quotes.ConfirmPayment(c.UserContext(), cb.Result())
	var perr *services.PaymentFailedError
	switch {
	case err == nil:
		log.WithField("order_id", order.ID).Info("Payment callback processed")
	case errors.As(err, &perr):
		log.WithField("reason", perr.Reason).Info("Payment callback reported failure")
	case errors.Is(err, services.ErrNotFound):
		log.Warn("Payment callback for unknown checkout")
		return c.Status(fiber.StatusNotFound).SendString("unknown merchant_oid")
	default:
		log.WithError(err).Error("Payment callback failed")
		return c.Status(fiber.StatusInternalServerError).SendString("retry")
	}
	return c.SendString("OK")
}
