package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := NewIDError(KindNotFoundVariant, "product variant not found", 42)

	assert.Equal(t, KindNotFoundVariant, KindOf(err))
	assert.True(t, IsKind(err, KindNotFoundVariant))
	assert.False(t, IsKind(err, KindOutOfStock))
}

func TestKindOfWrapped(t *testing.T) {
	inner := NewError(KindOutOfStock, "insufficient stock")
	wrapped := fmt.Errorf("reduce batch: %w", inner)

	assert.Equal(t, KindOutOfStock, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestBusinessOutcomeClassification(t *testing.T) {
	assert.True(t, KindOutOfStock.IsBusinessOutcome())
	assert.True(t, KindPriceDriftDetected.IsBusinessOutcome())
	assert.True(t, KindInsufficientPointBalance.IsBusinessOutcome())

	assert.False(t, KindCardinalityViolation.IsBusinessOutcome())
	assert.False(t, KindOptionValueTypeMismatch.IsBusinessOutcome())
}

func TestNotFoundClassification(t *testing.T) {
	assert.True(t, KindNotFoundCategory.IsNotFound())
	assert.True(t, KindNotFoundVariant.IsNotFound())
	assert.False(t, KindCategoryNotLeaf.IsNotFound())
}

func TestErrorMessageIncludesContext(t *testing.T) {
	err := NewFieldError(KindDuplicateSku, "sku already exists", "SKU-RED-128")
	assert.Contains(t, err.Error(), "SKU-RED-128")

	idErr := NewIDError(KindNotFoundOptionType, "option type not found", 7)
	assert.Contains(t, idErr.Error(), "id=7")
}
