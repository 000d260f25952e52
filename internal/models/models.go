package models

import "time"

// Category is a node in the catalog category tree. Only leaf categories
// (ChildCount == 0) may hold products directly.
type Category struct {
	ID         int64     `db:"id" json:"id"`
	ParentID   *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Name       string    `db:"name" json:"name"`
	ChildCount int       `db:"child_count" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsLeaf reports whether the category has no subcategories.
func (c *Category) IsLeaf() bool {
	return c.ChildCount == 0
}

// OptionType is a selectable axis (e.g. storage, color) owning a set of values.
type OptionType struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OptionValue belongs to exactly one option type.
type OptionValue struct {
	ID           int64  `db:"id" json:"id"`
	OptionTypeID int64  `db:"option_type_id" json:"option_type_id"`
	Name         string `db:"name" json:"name"`
}

// Product statuses
const (
	ProductStatusDraft  = "DRAFT"
	ProductStatusOnSale = "ON_SALE"
	ProductStatusClosed = "CLOSED"
)

// Product is the aggregate root for a catalog entry. Option types and
// variants are owned by value, not by back-references.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	OptionTypes []ProductOptionType `db:"-" json:"option_types,omitempty"`
	Variants    []ProductVariant    `db:"-" json:"variants,omitempty"`
}

// ProductOptionType is a product's declaration of one option axis.
type ProductOptionType struct {
	ID           int64 `db:"id" json:"id"`
	ProductID    int64 `db:"product_id" json:"product_id"`
	OptionTypeID int64 `db:"option_type_id" json:"option_type_id"`
	Priority     int   `db:"priority" json:"priority"`
	Active       bool  `db:"active" json:"active"`
}

// ProductVariant is a purchasable SKU: one option value per declared type.
type ProductVariant struct {
	ID            int64     `db:"id" json:"id"`
	ProductID     int64     `db:"product_id" json:"product_id"`
	SKU           string    `db:"sku" json:"sku"`
	OriginalPrice int64     `db:"original_price" json:"original_price"`
	DiscountRate  int       `db:"discount_rate" json:"discount_rate"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	Options []VariantOption `db:"-" json:"options,omitempty"`
}

// DiscountAmount is the per-unit discount, floored integer arithmetic.
func (v *ProductVariant) DiscountAmount() int64 {
	return v.OriginalPrice * int64(v.DiscountRate) / 100
}

// DiscountedPrice is the per-unit price after product discount.
func (v *ProductVariant) DiscountedPrice() int64 {
	return v.OriginalPrice - v.DiscountAmount()
}

// VariantOption links a variant to one option value of one option type.
type VariantOption struct {
	ID            int64 `db:"id" json:"id"`
	VariantID     int64 `db:"variant_id" json:"variant_id"`
	OptionTypeID  int64 `db:"option_type_id" json:"option_type_id"`
	OptionValueID int64 `db:"option_value_id" json:"option_value_id"`
}

// Order statuses
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusFailed    = "FAILED"
)

// Order is a settled customer order with its reconciled amounts.
type Order struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	Status               string    `db:"status" json:"status"`
	TotalOriginPrice     int64     `db:"total_origin_price" json:"total_origin_price"`
	TotalProductDiscount int64     `db:"total_product_discount" json:"total_product_discount"`
	CouponDiscount       int64     `db:"coupon_discount" json:"coupon_discount"`
	UsedPoint            int64     `db:"used_point" json:"used_point"`
	FinalPaymentAmount   int64     `db:"final_payment_amount" json:"final_payment_amount"`
	CouponID             *int64    `db:"coupon_id" json:"coupon_id,omitempty"`
	IdempotencyKey       string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem snapshots one variant line at settlement time.
type OrderItem struct {
	ID               int64  `db:"id" json:"id"`
	OrderID          int64  `db:"order_id" json:"order_id"`
	ProductVariantID int64  `db:"product_variant_id" json:"product_variant_id"`
	Quantity         int    `db:"quantity" json:"quantity"`
	OriginalPrice    int64  `db:"original_price" json:"original_price"`
	DiscountAmount   int64  `db:"discount_amount" json:"discount_amount"`
	DiscountedPrice  int64  `db:"discounted_price" json:"discounted_price"`
	LineTotal        int64  `db:"line_total" json:"line_total"`
	SKU              string `db:"sku" json:"sku"`
}

// ProcessedEvent for consumer-side idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
