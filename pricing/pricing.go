// Package pricing computes the unit and line prices a customer pays.
//
// Amounts are plain float64 values without rounding; rounding is a display
// concern handled by Format.
package pricing

import (
	"b2b-catalog/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DiscountedPrice applies a percentage discount (0-100) to a base unit price.
// A nil or zero discount returns base unchanged.
func DiscountedPrice(base float64, discount *float64) float64 {
	if discount == nil || *discount == 0 {
		return base
	}
	return base - base*(*discount/100)
}

// LineTotal is the discounted unit price times quantity.
func LineTotal(base float64, discount *float64, quantity int) float64 {
	return DiscountedPrice(base, discount) * float64(quantity)
}

// Total sums the line totals of products. The discount is applied per line,
// never to the summed amount.
func Total(products []models.Product, quantities map[string]int, discount *float64) float64 {
	var total float64
	for _, p := range products {
		total += LineTotal(p.Price, discount, quantities[p.ID])
	}
	return total
}

var printer = message.NewPrinter(language.Turkish)

// Format renders an amount with two decimals, Turkish digit grouping and the lira sign.
func Format(amount float64) string {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return printer.Sprintf("%.2f ₺", rounded)
}

// FormatPlain renders an amount with two decimals and no locale grouping,
// for exports that must stay machine readable.
func FormatPlain(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
