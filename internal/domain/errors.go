package domain

import (
	"errors"
	"fmt"
)

// Kind identifies a failure category surfaced by the pricing, catalog and
// inventory cores. The HTTP layer maps kinds to status codes; the cores only
// classify.
type Kind string

const (
	// Settlement outcomes.
	KindInsufficientPointBalance Kind = "INSUFFICIENT_POINT_BALANCE"
	KindPriceDriftDetected       Kind = "PRICE_DRIFT_DETECTED"

	// Request-level catalog defects.
	KindDuplicateOptionType       Kind = "DUPLICATE_OPTION_TYPE"
	KindDuplicatePriority         Kind = "DUPLICATE_PRIORITY"
	KindDuplicateSku              Kind = "DUPLICATE_SKU"
	KindCardinalityViolation      Kind = "CARDINALITY_VIOLATION"
	KindOptionCombinationConflict Kind = "OPTION_COMBINATION_CONFLICT"

	// Referential failures.
	KindNotFoundCategory        Kind = "CATEGORY_NOT_FOUND"
	KindNotFoundOptionType      Kind = "OPTION_TYPE_NOT_FOUND"
	KindNotFoundOptionValue     Kind = "OPTION_VALUE_NOT_FOUND"
	KindNotFoundVariant         Kind = "VARIANT_NOT_FOUND"
	KindNotFoundProduct         Kind = "PRODUCT_NOT_FOUND"
	KindNotFoundOrder           Kind = "ORDER_NOT_FOUND"
	KindCategoryNotLeaf         Kind = "CATEGORY_NOT_LEAF"
	KindOptionValueTypeMismatch Kind = "OPTION_VALUE_TYPE_MISMATCH"

	// Inventory outcomes.
	KindOutOfStock Kind = "OUT_OF_STOCK"
)

// Error carries a kind plus enough context (offending id or field) for the
// caller to build a user message.
type Error struct {
	Kind    Kind
	Message string
	ID      int64  // offending entity id, when one exists
	Field   string // offending field (sku, priority, ...), when one exists
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	case e.ID != 0:
		return fmt.Sprintf("%s: %s (id=%d)", e.Kind, e.Message, e.ID)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// NewError creates a kinded error with a free-form message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewIDError attaches the offending entity id.
func NewIDError(kind Kind, message string, id int64) *Error {
	return &Error{Kind: kind, Message: message, ID: id}
}

// NewFieldError attaches the offending field value.
func NewFieldError(kind Kind, message, field string) *Error {
	return &Error{Kind: kind, Message: message, Field: field}
}

// KindOf extracts the kind from an error chain, or "" for plain errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsBusinessOutcome reports whether the kind is an expected business-level
// result (user-correctable, not a defect). OutOfStock and price drift are
// normal checkout races; insufficient points is user input.
func (k Kind) IsBusinessOutcome() bool {
	switch k {
	case KindOutOfStock, KindPriceDriftDetected, KindInsufficientPointBalance:
		return true
	}
	return false
}

// IsNotFound reports whether the kind signals a missing referenced entity.
func (k Kind) IsNotFound() bool {
	switch k {
	case KindNotFoundCategory, KindNotFoundOptionType, KindNotFoundOptionValue,
		KindNotFoundVariant, KindNotFoundProduct, KindNotFoundOrder:
		return true
	}
	return false
}
