// Package pricing computes per-item price breakdowns and reconciles the
// final payable amount against the client's expectation. All functions are
// pure; callers supply already-fetched catalog prices and balances.
package pricing

// UnitPrice is the catalog price breakdown for one variant unit.
type UnitPrice struct {
	OriginalPrice   int64 `json:"original_price"`
	DiscountRate    int   `json:"discount_rate"`
	DiscountAmount  int64 `json:"discount_amount"`
	DiscountedPrice int64 `json:"discounted_price"`
}

// NewUnitPrice derives the discount fields from an original price and rate.
// DiscountAmount floors: 3000 at 10% is 300, 999 at 10% is 99.
func NewUnitPrice(originalPrice int64, discountRate int) UnitPrice {
	discountAmount := originalPrice * int64(discountRate) / 100
	return UnitPrice{
		OriginalPrice:   originalPrice,
		DiscountRate:    discountRate,
		DiscountAmount:  discountAmount,
		DiscountedPrice: originalPrice - discountAmount,
	}
}

// ItemSpec links a requested quantity to a resolved unit price.
type ItemSpec struct {
	ProductVariantID int64     `json:"product_variant_id"`
	Quantity         int       `json:"quantity"`
	UnitPrice        UnitPrice `json:"unit_price"`
}

// LineTotal is the discounted line amount for this item.
func (s ItemSpec) LineTotal() int64 {
	return s.UnitPrice.DiscountedPrice * int64(s.Quantity)
}

// ItemCalculationResult aggregates amounts across all order items.
type ItemCalculationResult struct {
	TotalOriginalPrice   int64 `json:"total_original_price"`
	TotalProductDiscount int64 `json:"total_product_discount"`
	SubTotalPrice        int64 `json:"sub_total_price"`
}

// CalculateItems sums original and discount amounts per item. Inputs are
// assumed well-formed (quantity >= 1, non-negative prices); there are no
// error paths.
func CalculateItems(items []ItemSpec) ItemCalculationResult {
	var totalOriginal, totalDiscount int64
	for _, item := range items {
		qty := int64(item.Quantity)
		totalOriginal += item.UnitPrice.OriginalPrice * qty
		totalDiscount += item.UnitPrice.DiscountAmount * qty
	}
	return ItemCalculationResult{
		TotalOriginalPrice:   totalOriginal,
		TotalProductDiscount: totalDiscount,
		SubTotalPrice:        totalOriginal - totalDiscount,
	}
}
