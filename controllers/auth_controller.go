package controllers

import (
	"b2b-catalog/logger"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// AuthController handles login and the current-user endpoint.
type AuthController struct {
	userService services.IUserService
	tokens      services.ITokenManager
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users services.IUserService, tokens services.ITokenManager) *AuthController {
	return &AuthController{userService: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := ac.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		logger.LogAction("login_failed", c, map[string]interface{}{"email": req.Email})
		return respondError(c, err)
	}
	token, expires, err := ac.tokens.Issue(*user)
	if err != nil {
		return respondError(c, err)
	}
	c.Locals(localUserID, user.ID)
	logger.LogAction("login", c, nil)
	return c.JSON(fiber.Map{"token": token, "expiresAt": expires, "user": user})
}

// Me handles GET /auth/me.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.userService.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
