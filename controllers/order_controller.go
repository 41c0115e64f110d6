package controllers

import (
	"bytes"
	"fmt"

	"b2b-catalog/export"
	"b2b-catalog/logger"
	"b2b-catalog/models"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// OrderController handles HTTP requests related to orders.
type OrderController struct {
	orderService services.IOrderService
	users        services.IUserService
	catalog      services.ICatalogService
}

// NewOrderController creates a new OrderController instance.
func NewOrderController(orders services.IOrderService, users services.IUserService, catalog services.ICatalogService) *OrderController {
	return &OrderController{orderService: orders, users: users, catalog: catalog}
}

type orderItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	UserID string      `json:"userId" validate:"required"`
	Items  []orderItem `json:"items" validate:"required,min=1,dive"`
	Notes  string      `json:"notes" validate:"max=2000"`
}

// CreateOrder handles POST /admin/orders: a quote entered by an admin on behalf of a customer.
func (oc *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var request createOrderRequest
	if err := parseBody(ctx, &request); err != nil {
		return respondError(ctx, err)
	}

	user, err := oc.users.GetUser(ctx.UserContext(), request.UserID)
	if err != nil {
		return respondError(ctx, err)
	}
	input := services.CreateOrderInput{User: *user, Quantities: map[string]int{}, Notes: request.Notes}
	for _, item := range request.Items {
		product, err := oc.catalog.GetProduct(ctx.UserContext(), item.ProductID)
		if err != nil {
			return respondError(ctx, err)
		}
		input.Products = append(input.Products, *product)
		input.Quantities[item.ProductID] = item.Quantity
	}

	order, err := oc.orderService.CreateOrder(ctx.UserContext(), input)
	if err != nil {
		return respondError(ctx, err)
	}
	logger.LogCRUD("create", "order", order.ID, ctx, map[string]interface{}{"user_id": user.ID, "total": order.TotalAmount})
	return ctx.Status(fiber.StatusCreated).JSON(order)
}

// ListOrders handles GET /admin/orders?status=.
func (oc *OrderController) ListOrders(ctx *fiber.Ctx) error {
	orders, err := oc.orderService.ListOrders(ctx.UserContext(), models.OrderStatus(ctx.Query("status")))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(orders)
}

// MyOrders handles GET /orders/mine.
func (oc *OrderController) MyOrders(ctx *fiber.Ctx) error {
	orders, err := oc.orderService.OrdersByUser(ctx.UserContext(), currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(orders)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /admin/orders/:id/status.
func (oc *OrderController) UpdateStatus(ctx *fiber.Ctx) error {
	var request statusRequest
	if err := parseBody(ctx, &request); err != nil {
		return respondError(ctx, err)
	}
	order, err := oc.orderService.UpdateStatus(ctx.UserContext(), ctx.Params("id"), request.Status)
	if err != nil {
		return respondError(ctx, err)
	}
	logger.LogCRUD("update", "order_status", order.ID, ctx, map[string]interface{}{"status": order.Status})
	return ctx.JSON(order)
}

// Invoice handles GET /orders/:id/invoice. Customers only see their own orders.
func (oc *OrderController) Invoice(ctx *fiber.Ctx) error {
	order, err := oc.orderService.GetOrder(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	if !isAdmin(ctx) && order.User.ID != currentUserID(ctx) {
		return respondError(ctx, fmt.Errorf("order %s: %w", order.ID, services.ErrNotFound))
	}

	var buf bytes.Buffer
	if err := export.WriteInvoicePDF(&buf, *order); err != nil {
		return respondError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="fatura-%s.pdf"`, order.ID))
	return ctx.Send(buf.Bytes())
}
