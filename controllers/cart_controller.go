package controllers

import (
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// CartController exposes the per-user product selection.
type CartController struct {
	selections services.ISelectionService
}

// NewCartController creates a new CartController instance.
func NewCartController(selections services.ISelectionService) *CartController {
	return &CartController{selections: selections}
}

// Get handles GET /cart.
func (cc *CartController) Get(c *fiber.Ctx) error {
	return c.JSON(cc.selections.Get(currentUserID(c)))
}

// Toggle handles POST /cart/items/:productId/toggle.
func (cc *CartController) Toggle(c *fiber.Ctx) error {
	view, err := cc.selections.Toggle(currentUserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PUT /cart/items/:productId. Quantities below the minimum are rejected.
func (cc *CartController) SetQuantity(c *fiber.Ctx) error {
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	view, err := cc.selections.SetQuantity(currentUserID(c), c.Params("productId"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Remove handles DELETE /cart/items/:productId.
func (cc *CartController) Remove(c *fiber.Ctx) error {
	return c.JSON(cc.selections.Remove(currentUserID(c), c.Params("productId")))
}

// Clear handles DELETE /cart.
func (cc *CartController) Clear(c *fiber.Ctx) error {
	return c.JSON(cc.selections.Clear(currentUserID(c)))
}
