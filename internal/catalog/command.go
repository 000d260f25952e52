// Package catalog validates product creation and variant addition requests:
// structural checks first (no I/O), then referential resolution against
// persisted option and category state.
package catalog

// ProductOptionTypeSpec declares one option axis on a product.
type ProductOptionTypeSpec struct {
	OptionTypeID int64 `json:"option_type_id" binding:"required"`
	Priority     int   `json:"priority"`
	Active       bool  `json:"active"`
}

// VariantOptionValueSpec pairs an option type with the value the variant
// takes for it.
type VariantOptionValueSpec struct {
	OptionTypeID  int64 `json:"option_type_id" binding:"required"`
	OptionValueID int64 `json:"option_value_id" binding:"required"`
}

// ProductVariantSpec describes one purchasable SKU in a request.
type ProductVariantSpec struct {
	SKU           string                   `json:"sku" binding:"required"`
	OriginalPrice int64                    `json:"original_price" binding:"required"`
	DiscountRate  int                      `json:"discount_rate"`
	StockQuantity int                      `json:"stock_quantity" binding:"required,min=1"`
	OptionValues  []VariantOptionValueSpec `json:"option_values" binding:"required"`
}

// CreateProductCommand is a full product creation request.
type CreateProductCommand struct {
	CategoryID  int64                   `json:"category_id" binding:"required"`
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	OptionTypes []ProductOptionTypeSpec `json:"option_types" binding:"required,min=1"`
	Variants    []ProductVariantSpec    `json:"variants" binding:"required,min=1"`
}

// ValidatedProduct is a structurally sound command ready for referential
// resolution.
type ValidatedProduct struct {
	Command          CreateProductCommand
	DeclaredTypeIDs  map[int64]struct{}
	PriorityByTypeID map[int64]int
	VariantBySKU     map[string]ProductVariantSpec
}
