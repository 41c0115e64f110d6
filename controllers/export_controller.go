package controllers

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"b2b-catalog/export"
	"b2b-catalog/logger"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
)

// ExportController handles product export and CSV import.
type ExportController struct {
	catalog services.ICatalogService
}

// NewExportController creates a new ExportController instance.
func NewExportController(catalog services.ICatalogService) *ExportController {
	return &ExportController{catalog: catalog}
}

// Export handles GET /admin/products/export?format=csv|xlsx|pdf|html.
func (ec *ExportController) Export(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format", string(export.FormatCSV)))
	if err != nil {
		return badRequest(c, err.Error())
	}
	products, err := ec.catalog.ListProducts(c.UserContext(), services.ProductFilter{CategoryID: c.Query("categoryId")})
	if err != nil {
		return respondError(c, err)
	}
	categories, err := ec.catalog.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteDocument(&buf, format, products, categories); err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("urunler-%s.%s", time.Now().Format("2006-01-02"), format.Extension())
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	logger.LogAction("products_export", c, map[string]interface{}{"format": format, "count": len(products)})
	return c.Send(buf.Bytes())
}

// Import handles POST /admin/products/import. The CSV comes either as the
// multipart field "file" or as the raw request body.
func (ec *ExportController) Import(c *fiber.Ctx) error {
	var src io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "cannot read uploaded file")
		}
		defer f.Close()
		src = f
	} else {
		if len(c.Body()) == 0 {
			return badRequest(c, "empty import")
		}
		src = bytes.NewReader(c.Body())
	}

	products, err := export.ReadProductsCSV(src)
	if err != nil {
		return badRequest(c, err.Error())
	}
	count, err := ec.catalog.ImportProducts(c.UserContext(), products)
	if err != nil {
		return respondError(c, err)
	}
	logger.LogAction("products_import", c, map[string]interface{}{"count": count})
	return c.JSON(fiber.Map{"imported": count})
}
