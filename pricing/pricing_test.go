package pricing

import (
	"testing"

	"b2b-catalog/models"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestDiscountedPrice_NoDiscount(t *testing.T) {
	assert.Equal(t, 975.0, DiscountedPrice(975, nil))
	assert.Equal(t, 975.0, DiscountedPrice(975, ptr(0)))
}

func TestDiscountedPrice_MatchesFormula(t *testing.T) {
	cases := []struct {
		base     float64
		discount float64
	}{
		{100, 10},
		{975, 12.5},
		{0, 50},
		{49.99, 100},
		{1, 33},
	}
	for _, c := range cases {
		got := DiscountedPrice(c.base, ptr(c.discount))
		assert.InDelta(t, c.base*(1-c.discount/100), got, 1e-9, "base=%v discount=%v", c.base, c.discount)
	}
}

func TestTotal_AppliesDiscountPerLine(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Price: 100},
		{ID: "p2", Price: 25.5},
	}
	quantities := map[string]int{"p1": 10, "p2": 20}

	assert.InDelta(t, 900.0+459.0, Total(products, quantities, ptr(10)), 1e-9)
	assert.InDelta(t, 1000.0+510.0, Total(products, quantities, nil), 1e-9)
}

func TestFormat(t *testing.T) {
	assert.Contains(t, Format(1234.5), "₺")
	assert.Equal(t, "1234.50", FormatPlain(1234.5))
	assert.Equal(t, "0.33", FormatPlain(1.0/3))
}
