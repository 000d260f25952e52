package catalog

import (
	"fmt"
	"sort"
	"strings"

	"commerce-service/internal/domain"
)

// ValidateCreateProduct checks the internal consistency of one product
// creation request. It never touches persisted state; every check below
// operates on the request payload alone and fails fast with a distinct kind.
func ValidateCreateProduct(cmd CreateProductCommand) (*ValidatedProduct, error) {
	declared, priorities, err := validateOptionTypeSpecs(cmd.OptionTypes)
	if err != nil {
		return nil, err
	}

	variantBySKU, err := validateVariantSpecs(declared, cmd.Variants)
	if err != nil {
		return nil, err
	}

	return &ValidatedProduct{
		Command:          cmd,
		DeclaredTypeIDs:  declared,
		PriorityByTypeID: priorities,
		VariantBySKU:     variantBySKU,
	}, nil
}

// ValidateVariantAddition checks a single new variant against a product's
// already-declared option type set.
func ValidateVariantAddition(spec ProductVariantSpec, declaredTypeIDs map[int64]struct{}) error {
	return validateCardinality(declaredTypeIDs, spec)
}

func validateOptionTypeSpecs(optionTypes []ProductOptionTypeSpec) (map[int64]struct{}, map[int64]int, error) {
	uniqueTypeIDs := make(map[int64]struct{}, len(optionTypes))
	uniquePriorities := make(map[int]struct{}, len(optionTypes))
	priorityByTypeID := make(map[int64]int, len(optionTypes))

	for _, spec := range optionTypes {
		if _, dup := uniqueTypeIDs[spec.OptionTypeID]; dup {
			return nil, nil, domain.NewIDError(domain.KindDuplicateOptionType,
				"option type declared more than once", spec.OptionTypeID)
		}
		uniqueTypeIDs[spec.OptionTypeID] = struct{}{}

		if _, dup := uniquePriorities[spec.Priority]; dup {
			return nil, nil, domain.NewFieldError(domain.KindDuplicatePriority,
				"option type priority declared more than once", fmt.Sprintf("priority=%d", spec.Priority))
		}
		uniquePriorities[spec.Priority] = struct{}{}
		priorityByTypeID[spec.OptionTypeID] = spec.Priority
	}

	return uniqueTypeIDs, priorityByTypeID, nil
}

func validateVariantSpecs(declaredTypeIDs map[int64]struct{}, variants []ProductVariantSpec) (map[string]ProductVariantSpec, error) {
	if err := validateUniqueSKUs(variants); err != nil {
		return nil, err
	}

	for _, variant := range variants {
		if err := validateCardinality(declaredTypeIDs, variant); err != nil {
			return nil, err
		}
	}

	if err := validateUniqueCombinations(variants); err != nil {
		return nil, err
	}

	variantBySKU := make(map[string]ProductVariantSpec, len(variants))
	for _, variant := range variants {
		variantBySKU[variant.SKU] = variant
	}
	return variantBySKU, nil
}

func validateUniqueSKUs(variants []ProductVariantSpec) error {
	seen := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		if _, dup := seen[variant.SKU]; dup {
			return domain.NewFieldError(domain.KindDuplicateSku,
				"sku appears more than once in request", variant.SKU)
		}
		seen[variant.SKU] = struct{}{}
	}
	return nil
}

// validateCardinality enforces that a variant's option pairs match the
// declared option type set exactly: same count, no duplicated type within
// the variant, no extra or missing type.
func validateCardinality(declaredTypeIDs map[int64]struct{}, variant ProductVariantSpec) error {
	if len(variant.OptionValues) != len(declaredTypeIDs) {
		return domain.NewFieldError(domain.KindCardinalityViolation,
			"variant option count does not match declared option types", variant.SKU)
	}

	seenTypes := make(map[int64]struct{}, len(variant.OptionValues))
	for _, pair := range variant.OptionValues {
		if _, dup := seenTypes[pair.OptionTypeID]; dup {
			return domain.NewFieldError(domain.KindCardinalityViolation,
				"variant references an option type more than once", variant.SKU)
		}
		seenTypes[pair.OptionTypeID] = struct{}{}

		if _, ok := declaredTypeIDs[pair.OptionTypeID]; !ok {
			return domain.NewFieldError(domain.KindCardinalityViolation,
				"variant references an undeclared option type", variant.SKU)
		}
	}
	return nil
}

func validateUniqueCombinations(variants []ProductVariantSpec) error {
	seen := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		key := combinationKey(variant.OptionValues)
		if _, dup := seen[key]; dup {
			return domain.NewFieldError(domain.KindOptionCombinationConflict,
				"two variants share the same option value combination", variant.SKU)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// combinationKey canonicalizes a variant's option value id set so that
// ordering within the request cannot hide a duplicate combination.
func combinationKey(pairs []VariantOptionValueSpec) string {
	ids := make([]int64, len(pairs))
	for i, pair := range pairs {
		ids[i] = pair.OptionValueID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}

// CombinationOf exposes the canonical combination key for a set of option
// pairs; the resolver uses it to compare a new variant against persisted ones.
func CombinationOf(pairs []VariantOptionValueSpec) string {
	return combinationKey(pairs)
}
