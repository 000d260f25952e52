package catalog

import (
	"testing"

	"commerce-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Product declares {storage=1, color=2}; two variants covering both axes.
func createProductCommand() CreateProductCommand {
	return CreateProductCommand{
		CategoryID: 100,
		Name:       "Phone X",
		OptionTypes: []ProductOptionTypeSpec{
			{OptionTypeID: 1, Priority: 1, Active: true},
			{OptionTypeID: 2, Priority: 2, Active: true},
		},
		Variants: []ProductVariantSpec{
			{
				SKU: "PHX-128-BLK", OriginalPrice: 900000, DiscountRate: 10, StockQuantity: 50,
				OptionValues: []VariantOptionValueSpec{
					{OptionTypeID: 1, OptionValueID: 11},
					{OptionTypeID: 2, OptionValueID: 21},
				},
			},
			{
				SKU: "PHX-256-BLK", OriginalPrice: 1000000, DiscountRate: 10, StockQuantity: 30,
				OptionValues: []VariantOptionValueSpec{
					{OptionTypeID: 1, OptionValueID: 12},
					{OptionTypeID: 2, OptionValueID: 21},
				},
			},
		},
	}
}

func TestValidateCreateProduct(t *testing.T) {
	validated, err := ValidateCreateProduct(createProductCommand())

	require.NoError(t, err)
	assert.Len(t, validated.DeclaredTypeIDs, 2)
	assert.Equal(t, 1, validated.PriorityByTypeID[1])
	assert.Equal(t, 2, validated.PriorityByTypeID[2])
	assert.Contains(t, validated.VariantBySKU, "PHX-128-BLK")
	assert.Contains(t, validated.VariantBySKU, "PHX-256-BLK")
}

func TestValidateDuplicateOptionType(t *testing.T) {
	cmd := createProductCommand()
	cmd.OptionTypes[1].OptionTypeID = cmd.OptionTypes[0].OptionTypeID

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindDuplicateOptionType, domain.KindOf(err))
}

func TestValidateDuplicatePriority(t *testing.T) {
	cmd := createProductCommand()
	cmd.OptionTypes[1].Priority = cmd.OptionTypes[0].Priority

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindDuplicatePriority, domain.KindOf(err))
}

func TestValidateDuplicateSKU(t *testing.T) {
	cmd := createProductCommand()
	cmd.Variants[1].SKU = cmd.Variants[0].SKU

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindDuplicateSku, domain.KindOf(err))
}

func TestValidateCardinalityFewerOptions(t *testing.T) {
	// Declares {storage, color}; variant supplies only storage.
	cmd := createProductCommand()
	cmd.Variants[0].OptionValues = cmd.Variants[0].OptionValues[:1]

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindCardinalityViolation, domain.KindOf(err))
}

func TestValidateCardinalityExtraOptions(t *testing.T) {
	cmd := createProductCommand()
	cmd.Variants[0].OptionValues = append(cmd.Variants[0].OptionValues,
		VariantOptionValueSpec{OptionTypeID: 3, OptionValueID: 31})

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindCardinalityViolation, domain.KindOf(err))
}

func TestValidateCardinalityDuplicateTypeWithinVariant(t *testing.T) {
	cmd := createProductCommand()
	cmd.Variants[0].OptionValues = []VariantOptionValueSpec{
		{OptionTypeID: 1, OptionValueID: 11},
		{OptionTypeID: 1, OptionValueID: 12},
	}

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindCardinalityViolation, domain.KindOf(err))
}

func TestValidateCardinalityUndeclaredType(t *testing.T) {
	cmd := createProductCommand()
	cmd.Variants[0].OptionValues = []VariantOptionValueSpec{
		{OptionTypeID: 1, OptionValueID: 11},
		{OptionTypeID: 9, OptionValueID: 91},
	}

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindCardinalityViolation, domain.KindOf(err))
}

func TestValidateDuplicateCombination(t *testing.T) {
	cmd := createProductCommand()
	cmd.Variants[1].OptionValues = []VariantOptionValueSpec{
		// Same values as variant 0, listed in reverse order.
		{OptionTypeID: 2, OptionValueID: 21},
		{OptionTypeID: 1, OptionValueID: 11},
	}

	_, err := ValidateCreateProduct(cmd)

	require.Error(t, err)
	assert.Equal(t, domain.KindOptionCombinationConflict, domain.KindOf(err))
}

func TestValidateOneDifferingValueSucceeds(t *testing.T) {
	cmd := createProductCommand()
	// Variants differ only in the storage value; that is enough.
	_, err := ValidateCreateProduct(cmd)
	require.NoError(t, err)
}

func TestValidateVariantAddition(t *testing.T) {
	declared := map[int64]struct{}{1: {}, 2: {}}

	ok := ProductVariantSpec{
		SKU: "PHX-512-BLK", StockQuantity: 5,
		OptionValues: []VariantOptionValueSpec{
			{OptionTypeID: 1, OptionValueID: 13},
			{OptionTypeID: 2, OptionValueID: 21},
		},
	}
	assert.NoError(t, ValidateVariantAddition(ok, declared))

	short := ProductVariantSpec{
		SKU: "PHX-512", StockQuantity: 5,
		OptionValues: []VariantOptionValueSpec{
			{OptionTypeID: 1, OptionValueID: 13},
		},
	}
	err := ValidateVariantAddition(short, declared)
	assert.Equal(t, domain.KindCardinalityViolation, domain.KindOf(err))
}

func TestCombinationKeyIsOrderInsensitive(t *testing.T) {
	a := []VariantOptionValueSpec{{OptionTypeID: 1, OptionValueID: 11}, {OptionTypeID: 2, OptionValueID: 21}}
	b := []VariantOptionValueSpec{{OptionTypeID: 2, OptionValueID: 21}, {OptionTypeID: 1, OptionValueID: 11}}

	assert.Equal(t, CombinationOf(a), CombinationOf(b))
	assert.NotEqual(t, CombinationOf(a), CombinationOf([]VariantOptionValueSpec{
		{OptionTypeID: 1, OptionValueID: 12}, {OptionTypeID: 2, OptionValueID: 21},
	}))
}
