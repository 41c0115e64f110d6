package controllers

import (
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// Controllers groups every HTTP handler of the storefront.
type Controllers struct {
	Auth    *AuthController
	Catalog *CatalogController
	Cart    *CartController
	Quote   *QuoteController
	Order   *OrderController
	User    *UserController
	Export  *ExportController
}

// SetupRoutes registers public, customer and admin routes on app.
func SetupRoutes(app *fiber.App, tokens services.ITokenManager, users services.IUserService, h Controllers) {
	// Public
	app.Post("/auth/login", h.Auth.Login)
	app.Post("/payments/callback", h.Quote.PaymentCallback)
	app.Get("/categories", h.Catalog.ListCategories)
	app.Get("/categories/:id/stats", h.Catalog.CategoryStats)
	app.Get("/products", OptionalAuth(tokens, users), h.Catalog.ListProducts)
	app.Get("/products/:id", OptionalAuth(tokens, users), h.Catalog.GetProduct)

	// Authenticated customers
	auth := AuthMiddleware(tokens, users)
	app.Get("/auth/me", auth, h.Auth.Me)

	cart := app.Group("/cart", auth)
	cart.Get("/", h.Cart.Get)
	cart.Delete("/", h.Cart.Clear)
	cart.Post("/items/:productId/toggle", h.Cart.Toggle)
	cart.Put("/items/:productId", h.Cart.SetQuantity)
	cart.Delete("/items/:productId", h.Cart.Remove)

	checkouts := app.Group("/checkouts", auth)
	checkouts.Post("/", h.Quote.StartCheckout)
	checkouts.Get("/:id", h.Quote.GetCheckout)
	checkouts.Delete("/:id", h.Quote.CancelCheckout)

	orders := app.Group("/orders", auth)
	orders.Get("/mine", h.Order.MyOrders)
	orders.Get("/:id/invoice", h.Order.Invoice)

	// Admin
	admin := app.Group("/admin", auth, AdminOnly())
	admin.Post("/categories", h.Catalog.CreateCategory)
	admin.Put("/categories/:id", h.Catalog.UpdateCategory)
	admin.Delete("/categories/:id", h.Catalog.DeleteCategory)

	admin.Get("/products", h.Catalog.AdminListProducts)
	admin.Get("/products/export", h.Export.Export)
	admin.Post("/products/import", h.Export.Import)
	admin.Post("/products", h.Catalog.CreateProduct)
	admin.Put("/products/:id", h.Catalog.UpdateProduct)
	admin.Delete("/products/:id", h.Catalog.DeleteProduct)
	admin.Patch("/products/:id/stock", h.Catalog.AdjustStock)

	admin.Get("/users", h.User.ListUsers)
	admin.Get("/users/:id", h.User.GetUser)
	admin.Post("/users", h.User.CreateUser)
	admin.Put("/users/:id", h.User.UpdateUser)
	admin.Delete("/users/:id", h.User.DeactivateUser)

	admin.Get("/orders", h.Order.ListOrders)
	admin.Post("/orders", h.Order.CreateOrder)
	admin.Patch("/orders/:id/status", h.Order.UpdateStatus)
}
