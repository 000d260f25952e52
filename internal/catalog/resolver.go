package catalog

import (
	"context"
	"fmt"
	"sort"

	"commerce-service/internal/domain"
	"commerce-service/internal/models"
)

// Store is the batch-lookup surface the resolver needs from the storage
// layer. Missing single entities are reported as (nil, nil).
type Store interface {
	AnySKUExists(ctx context.Context, skus []string) (bool, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetOptionTypesByIDs(ctx context.Context, ids []int64) ([]models.OptionType, error)
	GetOptionValuesByIDs(ctx context.Context, ids []int64) ([]models.OptionValue, error)
}

// CreationData bundles the resolved entities consumed by product assembly.
type CreationData struct {
	Category        *models.Category
	OptionTypeByID  map[int64]models.OptionType
	OptionValueByID map[int64]models.OptionValue
}

// Resolver checks a structurally validated command against persisted state.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over the given storage surface.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveProduct runs the storage-aware validation steps for product
// creation and returns the creation data bundle on success.
func (r *Resolver) ResolveProduct(ctx context.Context, validated *ValidatedProduct) (*CreationData, error) {
	cmd := validated.Command

	skus := make([]string, 0, len(cmd.Variants))
	for _, variant := range cmd.Variants {
		skus = append(skus, variant.SKU)
	}
	if err := r.ensureSKUsNotPersisted(ctx, skus); err != nil {
		return nil, err
	}

	category, err := r.resolveLeafCategory(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}

	typeIDs := sortedIDs(validated.DeclaredTypeIDs)
	optionTypeByID, err := r.resolveOptionTypes(ctx, typeIDs)
	if err != nil {
		return nil, err
	}

	valueIDs := collectOptionValueIDs(cmd.Variants)
	optionValueByID, err := r.resolveOptionValues(ctx, valueIDs)
	if err != nil {
		return nil, err
	}

	for _, variant := range cmd.Variants {
		if err := checkValueOwnership(variant, optionValueByID); err != nil {
			return nil, err
		}
	}

	return &CreationData{
		Category:        category,
		OptionTypeByID:  optionTypeByID,
		OptionValueByID: optionValueByID,
	}, nil
}

// ResolveVariantAddition validates one new variant against an existing
// product: cardinality against the product's declared option types,
// combination uniqueness against its persisted variants, then the same
// referential checks as product creation restricted to this variant.
func (r *Resolver) ResolveVariantAddition(ctx context.Context, spec ProductVariantSpec, product *models.Product) (*CreationData, error) {
	declared := make(map[int64]struct{}, len(product.OptionTypes))
	for _, pot := range product.OptionTypes {
		declared[pot.OptionTypeID] = struct{}{}
	}
	if err := validateCardinality(declared, spec); err != nil {
		return nil, err
	}

	newCombination := CombinationOf(spec.OptionValues)
	for _, existing := range product.Variants {
		pairs := make([]VariantOptionValueSpec, len(existing.Options))
		for i, opt := range existing.Options {
			pairs[i] = VariantOptionValueSpec{OptionTypeID: opt.OptionTypeID, OptionValueID: opt.OptionValueID}
		}
		if CombinationOf(pairs) == newCombination {
			return nil, domain.NewFieldError(domain.KindOptionCombinationConflict,
				"a variant with this option combination already exists", spec.SKU)
		}
	}

	if err := r.ensureSKUsNotPersisted(ctx, []string{spec.SKU}); err != nil {
		return nil, err
	}

	optionTypeByID, err := r.resolveOptionTypes(ctx, sortedIDs(declared))
	if err != nil {
		return nil, err
	}

	valueIDs := collectOptionValueIDs([]ProductVariantSpec{spec})
	optionValueByID, err := r.resolveOptionValues(ctx, valueIDs)
	if err != nil {
		return nil, err
	}

	if err := checkValueOwnership(spec, optionValueByID); err != nil {
		return nil, err
	}

	return &CreationData{
		OptionTypeByID:  optionTypeByID,
		OptionValueByID: optionValueByID,
	}, nil
}

func (r *Resolver) ensureSKUsNotPersisted(ctx context.Context, skus []string) error {
	exists, err := r.store.AnySKUExists(ctx, skus)
	if err != nil {
		return fmt.Errorf("sku existence check: %w", err)
	}
	if exists {
		return domain.NewError(domain.KindDuplicateSku, "sku already persisted")
	}
	return nil
}

func (r *Resolver) resolveLeafCategory(ctx context.Context, categoryID int64) (*models.Category, error) {
	category, err := r.store.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category lookup: %w", err)
	}
	if category == nil {
		return nil, domain.NewIDError(domain.KindNotFoundCategory, "category not found", categoryID)
	}
	if !category.IsLeaf() {
		return nil, domain.NewIDError(domain.KindCategoryNotLeaf,
			"category has subcategories and cannot hold products", categoryID)
	}
	return category, nil
}

func (r *Resolver) resolveOptionTypes(ctx context.Context, typeIDs []int64) (map[int64]models.OptionType, error) {
	optionTypes, err := r.store.GetOptionTypesByIDs(ctx, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("option type lookup: %w", err)
	}

	byID := make(map[int64]models.OptionType, len(optionTypes))
	for _, ot := range optionTypes {
		byID[ot.ID] = ot
	}
	for _, id := range typeIDs {
		if _, ok := byID[id]; !ok {
			return nil, domain.NewIDError(domain.KindNotFoundOptionType, "option type not found", id)
		}
	}
	return byID, nil
}

func (r *Resolver) resolveOptionValues(ctx context.Context, valueIDs []int64) (map[int64]models.OptionValue, error) {
	optionValues, err := r.store.GetOptionValuesByIDs(ctx, valueIDs)
	if err != nil {
		return nil, fmt.Errorf("option value lookup: %w", err)
	}

	byID := make(map[int64]models.OptionValue, len(optionValues))
	for _, ov := range optionValues {
		byID[ov.ID] = ov
	}
	for _, id := range valueIDs {
		if _, ok := byID[id]; !ok {
			return nil, domain.NewIDError(domain.KindNotFoundOptionValue, "option value not found", id)
		}
	}
	return byID, nil
}

// checkValueOwnership verifies every (type, value) pair references a value
// actually owned by that type.
func checkValueOwnership(variant ProductVariantSpec, optionValueByID map[int64]models.OptionValue) error {
	for _, pair := range variant.OptionValues {
		value, ok := optionValueByID[pair.OptionValueID]
		if !ok {
			return domain.NewIDError(domain.KindNotFoundOptionValue, "option value not found", pair.OptionValueID)
		}
		if value.OptionTypeID != pair.OptionTypeID {
			return domain.NewIDError(domain.KindOptionValueTypeMismatch,
				"option value does not belong to the paired option type", pair.OptionValueID)
		}
	}
	return nil
}

// sortedIDs keeps lookup and miss-reporting order deterministic.
func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func collectOptionValueIDs(variants []ProductVariantSpec) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, variant := range variants {
		for _, pair := range variant.OptionValues {
			if _, ok := seen[pair.OptionValueID]; ok {
				continue
			}
			seen[pair.OptionValueID] = struct{}{}
			ids = append(ids, pair.OptionValueID)
		}
	}
	return ids
}
