package controllers

import (
	"errors"

	"b2b-catalog/logger"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var verr *services.ValidationError
	var perr *services.PaymentFailedError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.As(err, &perr):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrPaymentProvider):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"error": ...} with the status matching err.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := fiber.Map{"error": err.Error()}

	var verr *services.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	if status == fiber.StatusInternalServerError {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"path":   c.Path(),
			"method": c.Method(),
		}).WithError(err).Error("Request failed")
		body["error"] = "internal server error"
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// parseBody decodes and validates the request body into dst.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &services.ValidationError{Message: "Invalid request body format"}
	}
	return services.ValidateStruct(dst)
}
