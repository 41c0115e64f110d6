package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LogAction writes one audit entry for an action performed through the HTTP API.
func LogAction(action string, c *fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get(fiber.HeaderUserAgent),
		"details":    details,
		"timestamp":  time.Now(),
	}
	if userID, ok := c.Locals("userID").(string); ok {
		fields["user_id"] = userID
	}
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		fields["request_id"] = requestID
	}

	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogCRUD logs an admin create/update/delete on a resource.
func LogCRUD(operation, resourceType, resourceID string, c *fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID

	LogAction("crud_"+operation, c, details)
}
