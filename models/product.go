package models

import "time"

// ProductDetails holds the technical sheet of a netting product.
type ProductDetails struct {
	Dimensions   string            `json:"dimensions,omitempty"`
	Thread       string            `json:"thread,omitempty"`
	Canvas       string            `json:"canvas,omitempty"`
	Content      string            `json:"content,omitempty"`
	StitchDetail string            `json:"stitchDetail,omitempty"`
	Tensioning   string            `json:"tensioning,omitempty"`
	Usage        string            `json:"usage,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// ProductVariant is a priced variation of a product (size, colour, ...).
type ProductVariant struct {
	ID         string            `json:"id"`
	Name       string            `json:"name" validate:"required"`
	Price      float64           `json:"price" validate:"gte=0"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Product is a catalog item. Price is a unit amount in a single currency.
type Product struct {
	ID         string           `json:"id"`
	Name       string           `json:"name" validate:"required,max=200"`
	Code       string           `json:"code" validate:"required,max=64"`
	Price      float64          `json:"price" validate:"gt=0"`
	Images     []string         `json:"images"`
	Views      int              `json:"views"`
	Stock      int              `json:"stock" validate:"gte=0"`
	Variants   []ProductVariant `json:"variants,omitempty" validate:"dive"`
	Details    ProductDetails   `json:"details"`
	CategoryID string           `json:"categoryId" validate:"required"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// PricedProduct is a product together with the unit price a given user pays.
type PricedProduct struct {
	Product
	DisplayPrice float64 `json:"displayPrice"`
}
