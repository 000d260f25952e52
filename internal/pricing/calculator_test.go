package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUnitPrice(t *testing.T) {
	price := NewUnitPrice(3000, 10)

	assert.Equal(t, int64(3000), price.OriginalPrice)
	assert.Equal(t, int64(300), price.DiscountAmount)
	assert.Equal(t, int64(2700), price.DiscountedPrice)
}

func TestNewUnitPriceFloorsDiscount(t *testing.T) {
	price := NewUnitPrice(999, 10)

	assert.Equal(t, int64(99), price.DiscountAmount)
	assert.Equal(t, int64(900), price.DiscountedPrice)
}

func TestNewUnitPriceZeroRate(t *testing.T) {
	price := NewUnitPrice(5000, 0)

	assert.Equal(t, int64(0), price.DiscountAmount)
	assert.Equal(t, int64(5000), price.DiscountedPrice)
}

func TestCalculateItems(t *testing.T) {
	items := []ItemSpec{
		{ProductVariantID: 1, Quantity: 3, UnitPrice: NewUnitPrice(3000, 10)},
		{ProductVariantID: 2, Quantity: 5, UnitPrice: NewUnitPrice(5000, 10)},
	}

	result := CalculateItems(items)

	assert.Equal(t, int64(34000), result.TotalOriginalPrice)
	assert.Equal(t, int64(3400), result.TotalProductDiscount)
	assert.Equal(t, int64(30600), result.SubTotalPrice)
}

func TestCalculateItemsEmpty(t *testing.T) {
	result := CalculateItems(nil)

	assert.Zero(t, result.TotalOriginalPrice)
	assert.Zero(t, result.TotalProductDiscount)
	assert.Zero(t, result.SubTotalPrice)
}

func TestCalculateItemsSubTotalInvariant(t *testing.T) {
	cases := [][]ItemSpec{
		{{Quantity: 1, UnitPrice: NewUnitPrice(100, 0)}},
		{{Quantity: 7, UnitPrice: NewUnitPrice(1999, 33)}},
		{
			{Quantity: 2, UnitPrice: NewUnitPrice(12345, 17)},
			{Quantity: 9, UnitPrice: NewUnitPrice(777, 50)},
			{Quantity: 1, UnitPrice: NewUnitPrice(1, 99)},
		},
	}

	for _, items := range cases {
		result := CalculateItems(items)
		assert.Equal(t, result.SubTotalPrice, result.TotalOriginalPrice-result.TotalProductDiscount)
	}
}

func TestLineTotal(t *testing.T) {
	item := ItemSpec{Quantity: 4, UnitPrice: NewUnitPrice(2500, 20)}

	assert.Equal(t, int64(8000), item.LineTotal())
}
