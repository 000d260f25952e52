package models

import "time"

// Event types
const (
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderConfirmed = "ORDER_CONFIRMED"
	EventTypeOrderCancelled = "ORDER_CANCELLED"
	EventTypeStockDeducted  = "STOCK_DEDUCTED"
	EventTypeStockRestore   = "STOCK_RESTORE_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published after settlement succeeds
type OrderCreatedEvent struct {
	BaseEvent
	OrderID            int64           `json:"order_id"`
	UserID             int64           `json:"user_id"`
	FinalPaymentAmount int64           `json:"final_payment_amount"`
	Items              []OrderItemData `json:"items"`
}

// OrderConfirmedEvent published when stock deduction completes
type OrderConfirmedEvent struct {
	BaseEvent
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}

// OrderCancelledEvent published when an order is cancelled
type OrderCancelledEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// StockDeductedEvent published after a successful batch reduction
type StockDeductedEvent struct {
	BaseEvent
	OrderID  int64              `json:"order_id"`
	Deducted []DeductedItemData `json:"deducted"`
}

// StockRestoreEvent requests compensation for a cancelled order
type StockRestoreEvent struct {
	BaseEvent
	OrderID int64           `json:"order_id"`
	Items   []OrderItemData `json:"items"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductVariantID int64 `json:"product_variant_id"`
	Quantity         int   `json:"quantity"`
	DiscountedPrice  int64 `json:"discounted_price"`
}

// DeductedItemData carries the post-reduction snapshot per variant
type DeductedItemData struct {
	ProductVariantID int64 `json:"product_variant_id"`
	Quantity         int   `json:"quantity"`
	OriginalPrice    int64 `json:"original_price"`
	DiscountedPrice  int64 `json:"discounted_price"`
	RemainingStock   int   `json:"remaining_stock"`
}
