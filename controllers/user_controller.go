package controllers

import (
	"b2b-catalog/logger"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// UserController is the admin user directory.
type UserController struct {
	users services.IUserService
}

// NewUserController creates a new UserController instance.
func NewUserController(users services.IUserService) *UserController {
	return &UserController{users: users}
}

// ListUsers handles GET /admin/users.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := uc.users.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /admin/users/:id.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	user, err := uc.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// CreateUser handles POST /admin/users.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	user, err := uc.users.CreateUser(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("create", "user", user.ID, c, map[string]interface{}{"email": user.Email, "role": user.Role})
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /admin/users/:id.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	user, err := uc.users.UpdateUser(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("update", "user", user.ID, c, nil)
	return c.JSON(user)
}

// DeactivateUser handles DELETE /admin/users/:id. The user is kept as inactive.
func (uc *UserController) DeactivateUser(c *fiber.Ctx) error {
	if c.Params("id") == currentUserID(c) {
		return badRequest(c, "cannot deactivate yourself")
	}
	user, err := uc.users.DeactivateUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("delete", "user", user.ID, c, nil)
	return c.JSON(user)
}
