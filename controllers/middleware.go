package controllers

import (
	"strings"

	"b2b-catalog/logger"
	"b2b-catalog/models"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Locals keys set by the auth middleware.
const (
	localUserID = "userID"
	localRole   = "role"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// resolveUser verifies the token and loads its user from the directory, so a
// deactivated or demoted account loses access before the token expires.
func resolveUser(c *fiber.Ctx, tokens services.ITokenManager, users services.IUserService, token string) (*models.User, error) {
	claims, err := tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, services.ErrUnauthorized
	}
	return user, nil
}

// AuthMiddleware rejects requests without a valid bearer token of an active user.
// The role put in the locals is the stored one, not the token claim.
func AuthMiddleware(tokens services.ITokenManager, users services.IUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		user, err := resolveUser(c, tokens, users, token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).WithError(err).Warn("Rejected token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(localUserID, user.ID)
		c.Locals(localRole, user.Role)
		return c.Next()
	}
}

// OptionalAuth sets the user locals when a token of an active user is present and never rejects.
func OptionalAuth(tokens services.ITokenManager, users services.IUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if user, err := resolveUser(c, tokens, users, token); err == nil {
				c.Locals(localUserID, user.ID)
				c.Locals(localRole, user.Role)
			}
		}
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(localRole).(string); role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(localRole).(string)
	return role == models.RoleAdmin
}
