package catalog

import (
	"context"
	"testing"

	"commerce-service/internal/domain"
	"commerce-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for resolver tests.
type fakeStore struct {
	categories   map[int64]*models.Category
	optionTypes  map[int64]models.OptionType
	optionValues map[int64]models.OptionValue
	existingSKUs map[string]struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: map[int64]*models.Category{
			100: {ID: 100, Name: "Smartphones", ChildCount: 0},
			200: {ID: 200, Name: "Electronics", ChildCount: 3},
		},
		optionTypes: map[int64]models.OptionType{
			1: {ID: 1, Name: "storage"},
			2: {ID: 2, Name: "color"},
		},
		optionValues: map[int64]models.OptionValue{
			11: {ID: 11, OptionTypeID: 1, Name: "128GB"},
			12: {ID: 12, OptionTypeID: 1, Name: "256GB"},
			13: {ID: 13, OptionTypeID: 1, Name: "512GB"},
			21: {ID: 21, OptionTypeID: 2, Name: "black"},
			22: {ID: 22, OptionTypeID: 2, Name: "silver"},
		},
		existingSKUs: map[string]struct{}{"TAKEN-SKU": {}},
	}
}

func (f *fakeStore) AnySKUExists(_ context.Context, skus []string) (bool, error) {
	for _, sku := range skus {
		if _, ok := f.existingSKUs[sku]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	return f.categories[id], nil
}

func (f *fakeStore) GetOptionTypesByIDs(_ context.Context, ids []int64) ([]models.OptionType, error) {
	var out []models.OptionType
	for _, id := range ids {
		if ot, ok := f.optionTypes[id]; ok {
			out = append(out, ot)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOptionValuesByIDs(_ context.Context, ids []int64) ([]models.OptionValue, error) {
	var out []models.OptionValue
	for _, id := range ids {
		if ov, ok := f.optionValues[id]; ok {
			out = append(out, ov)
		}
	}
	return out, nil
}

func validatedFixture(t *testing.T, mutate func(*CreateProductCommand)) *ValidatedProduct {
	t.Helper()
	cmd := createProductCommand()
	if mutate != nil {
		mutate(&cmd)
	}
	validated, err := ValidateCreateProduct(cmd)
	require.NoError(t, err)
	return validated
}

func TestResolveProduct(t *testing.T) {
	resolver := NewResolver(newFakeStore())

	data, err := resolver.ResolveProduct(context.Background(), validatedFixture(t, nil))

	require.NoError(t, err)
	assert.Equal(t, int64(100), data.Category.ID)
	assert.Len(t, data.OptionTypeByID, 2)
	assert.Len(t, data.OptionValueByID, 3) // 11, 12, 21
}

func TestResolvePersistedSKUConflict(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	validated := validatedFixture(t, func(cmd *CreateProductCommand) {
		cmd.Variants[0].SKU = "TAKEN-SKU"
	})

	_, err := resolver.ResolveProduct(context.Background(), validated)

	require.Error(t, err)
	assert.Equal(t, domain.KindDuplicateSku, domain.KindOf(err))
}

func TestResolveCategoryNotFound(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	validated := validatedFixture(t, func(cmd *CreateProductCommand) {
		cmd.CategoryID = 999
	})

	_, err := resolver.ResolveProduct(context.Background(), validated)

	assert.Equal(t, domain.KindNotFoundCategory, domain.KindOf(err))
}

func TestResolveCategoryNotLeaf(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	validated := validatedFixture(t, func(cmd *CreateProductCommand) {
		cmd.CategoryID = 200
	})

	_, err := resolver.ResolveProduct(context.Background(), validated)

	assert.Equal(t, domain.KindCategoryNotLeaf, domain.KindOf(err))
}

func TestResolveOptionTypeNotFound(t *testing.T) {
	store := newFakeStore()
	delete(store.optionTypes, 2)
	resolver := NewResolver(store)

	_, err := resolver.ResolveProduct(context.Background(), validatedFixture(t, nil))

	assert.Equal(t, domain.KindNotFoundOptionType, domain.KindOf(err))
}

func TestResolveOptionValueNotFound(t *testing.T) {
	store := newFakeStore()
	delete(store.optionValues, 21)
	resolver := NewResolver(store)

	_, err := resolver.ResolveProduct(context.Background(), validatedFixture(t, nil))

	assert.Equal(t, domain.KindNotFoundOptionValue, domain.KindOf(err))
}

func TestResolveOptionValueTypeMismatch(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	validated := validatedFixture(t, func(cmd *CreateProductCommand) {
		// Value 21 belongs to color (type 2), paired here with storage (type 1).
		cmd.Variants[0].OptionValues = []VariantOptionValueSpec{
			{OptionTypeID: 1, OptionValueID: 21},
			{OptionTypeID: 2, OptionValueID: 22},
		}
	})

	_, err := resolver.ResolveProduct(context.Background(), validated)

	assert.Equal(t, domain.KindOptionValueTypeMismatch, domain.KindOf(err))
}

func existingProduct() *models.Product {
	return &models.Product{
		ID: 7, CategoryID: 100, Name: "Phone X", Status: models.ProductStatusOnSale,
		OptionTypes: []models.ProductOptionType{
			{ProductID: 7, OptionTypeID: 1, Priority: 1, Active: true},
			{ProductID: 7, OptionTypeID: 2, Priority: 2, Active: true},
		},
		Variants: []models.ProductVariant{
			{
				ID: 70, ProductID: 7, SKU: "PHX-128-BLK",
				Options: []models.VariantOption{
					{OptionTypeID: 1, OptionValueID: 11},
					{OptionTypeID: 2, OptionValueID: 21},
				},
			},
		},
	}
}

func TestResolveVariantAddition(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	spec := ProductVariantSpec{
		SKU: "PHX-512-SLV", OriginalPrice: 1200000, StockQuantity: 10,
		OptionValues: []VariantOptionValueSpec{
			{OptionTypeID: 1, OptionValueID: 13},
			{OptionTypeID: 2, OptionValueID: 22},
		},
	}

	data, err := resolver.ResolveVariantAddition(context.Background(), spec, existingProduct())

	require.NoError(t, err)
	assert.Len(t, data.OptionValueByID, 2)
}

func TestResolveVariantAdditionCardinality(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	spec := ProductVariantSpec{
		SKU: "PHX-512", StockQuantity: 10,
		OptionValues: []VariantOptionValueSpec{
			{OptionTypeID: 1, OptionValueID: 13},
		},
	}

	_, err := resolver.ResolveVariantAddition(context.Background(), spec, existingProduct())

	assert.Equal(t, domain.KindCardinalityViolation, domain.KindOf(err))
}

func TestResolveVariantAdditionCombinationConflict(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	spec := ProductVariantSpec{
		SKU: "PHX-NEW", StockQuantity: 10,
		OptionValues: []VariantOptionValueSpec{
			// Same combination as persisted variant 70.
			{OptionTypeID: 2, OptionValueID: 21},
			{OptionTypeID: 1, OptionValueID: 11},
		},
	}

	_, err := resolver.ResolveVariantAddition(context.Background(), spec, existingProduct())

	assert.Equal(t, domain.KindOptionCombinationConflict, domain.KindOf(err))
}

func TestResolveVariantAdditionSKUConflict(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	spec := ProductVariantSpec{
		SKU: "TAKEN-SKU", StockQuantity: 10,
		OptionValues: []VariantOptionValueSpec{
			{OptionTypeID: 1, OptionValueID: 13},
			{OptionTypeID: 2, OptionValueID: 22},
		},
	}

	_, err := resolver.ResolveVariantAddition(context.Background(), spec, existingProduct())

	assert.Equal(t, domain.KindDuplicateSku, domain.KindOf(err))
}

func TestBuildProduct(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	validated := validatedFixture(t, nil)
	data, err := resolver.ResolveProduct(context.Background(), validated)
	require.NoError(t, err)

	product := BuildProduct(validated, data)

	assert.Equal(t, int64(100), product.CategoryID)
	assert.Equal(t, models.ProductStatusDraft, product.Status)
	assert.Len(t, product.OptionTypes, 2)
	require.Len(t, product.Variants, 2)
	assert.Equal(t, "PHX-128-BLK", product.Variants[0].SKU)
	assert.Len(t, product.Variants[0].Options, 2)
}
