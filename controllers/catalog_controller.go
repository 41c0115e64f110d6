package controllers

import (
	"b2b-catalog/logger"
	"b2b-catalog/models"
	"b2b-catalog/pricing"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogController serves categories and products, publicly and to admins.
type CatalogController struct {
	catalog services.ICatalogService
	users   services.IUserService
}

// NewCatalogController creates a new CatalogController instance.
func NewCatalogController(catalog services.ICatalogService, users services.IUserService) *CatalogController {
	return &CatalogController{catalog: catalog, users: users}
}

// ListCategories handles GET /categories. ?flat=true returns the stored list instead of the tree.
func (cc *CatalogController) ListCategories(c *fiber.Ctx) error {
	if c.QueryBool("flat") {
		categories, err := cc.catalog.ListCategories(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(categories)
	}
	tree, err := cc.catalog.CategoryTree(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tree)
}

// CategoryStats handles GET /categories/:id/stats.
func (cc *CatalogController) CategoryStats(c *fiber.Ctx) error {
	stats, err := cc.catalog.CategoryStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// viewerDiscount returns the discount of the authenticated user, if any.
func (cc *CatalogController) viewerDiscount(c *fiber.Ctx) *float64 {
	id := currentUserID(c)
	if id == "" {
		return nil
	}
	user, err := cc.users.GetUser(c.UserContext(), id)
	if err != nil || !user.IsActive() {
		return nil
	}
	return user.Discount
}

// ListProducts handles GET /products?categoryId=&q=.
func (cc *CatalogController) ListProducts(c *fiber.Ctx) error {
	filter := services.ProductFilter{CategoryID: c.Query("categoryId"), Search: c.Query("q")}
	products, err := cc.catalog.PricedProducts(c.UserContext(), filter, cc.viewerDiscount(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct handles GET /products/:id and counts the view.
func (cc *CatalogController) GetProduct(c *fiber.Ctx) error {
	product, err := cc.catalog.ViewProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.PricedProduct{
		Product:      *product,
		DisplayPrice: pricing.DiscountedPrice(product.Price, cc.viewerDiscount(c)),
	})
}

// CreateCategory handles POST /admin/categories.
func (cc *CatalogController) CreateCategory(c *fiber.Ctx) error {
	var req models.Category
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	created, err := cc.catalog.CreateCategory(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("create", "category", created.ID, c, map[string]interface{}{"name": created.Name})
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateCategory handles PUT /admin/categories/:id.
func (cc *CatalogController) UpdateCategory(c *fiber.Ctx) error {
	var req models.Category
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	updated, err := cc.catalog.UpdateCategory(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("update", "category", updated.ID, c, nil)
	return c.JSON(updated)
}

// DeleteCategory handles DELETE /admin/categories/:id; descendants and their products go too.
func (cc *CatalogController) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	categoryIDs, productIDs, err := cc.catalog.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("delete", "category", id, c, map[string]interface{}{
		"categories": categoryIDs,
		"products":   productIDs,
	})
	return c.JSON(fiber.Map{"deletedCategories": categoryIDs, "deletedProducts": productIDs})
}

// AdminListProducts handles GET /admin/products with undiscounted prices.
func (cc *CatalogController) AdminListProducts(c *fiber.Ctx) error {
	products, err := cc.catalog.ListProducts(c.UserContext(), services.ProductFilter{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("q"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// CreateProduct handles POST /admin/products.
func (cc *CatalogController) CreateProduct(c *fiber.Ctx) error {
	var req models.Product
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	created, err := cc.catalog.CreateProduct(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("create", "product", created.ID, c, map[string]interface{}{"code": created.Code})
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProduct handles PUT /admin/products/:id.
func (cc *CatalogController) UpdateProduct(c *fiber.Ctx) error {
	var req models.Product
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body format")
	}
	updated, err := cc.catalog.UpdateProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("update", "product", updated.ID, c, nil)
	return c.JSON(updated)
}

// DeleteProduct handles DELETE /admin/products/:id.
func (cc *CatalogController) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := cc.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("delete", "product", id, c, nil)
	return c.SendStatus(fiber.StatusNoContent)
}

type stockRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

// AdjustStock handles PATCH /admin/products/:id/stock.
func (cc *CatalogController) AdjustStock(c *fiber.Ctx) error {
	var req stockRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := cc.catalog.AdjustStock(c.UserContext(), c.Params("id"), req.Delta)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogCRUD("update", "product_stock", product.ID, c, map[string]interface{}{"delta": req.Delta, "stock": product.Stock})
	return c.JSON(product)
}
