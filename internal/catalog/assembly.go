package catalog

import (
	"commerce-service/internal/models"
)

// BuildProduct assembles the product aggregate from a validated command and
// its resolved creation data. Pure mapping; every reference was already
// validated.
func BuildProduct(validated *ValidatedProduct, data *CreationData) models.Product {
	cmd := validated.Command

	product := models.Product{
		CategoryID:  data.Category.ID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Status:      models.ProductStatusDraft,
	}

	product.OptionTypes = make([]models.ProductOptionType, 0, len(cmd.OptionTypes))
	for _, spec := range cmd.OptionTypes {
		product.OptionTypes = append(product.OptionTypes, models.ProductOptionType{
			OptionTypeID: spec.OptionTypeID,
			Priority:     spec.Priority,
			Active:       spec.Active,
		})
	}

	product.Variants = make([]models.ProductVariant, 0, len(cmd.Variants))
	for _, spec := range cmd.Variants {
		product.Variants = append(product.Variants, BuildVariant(spec))
	}

	return product
}

// BuildVariant maps one variant spec onto the persisted variant shape.
func BuildVariant(spec ProductVariantSpec) models.ProductVariant {
	variant := models.ProductVariant{
		SKU:           spec.SKU,
		OriginalPrice: spec.OriginalPrice,
		DiscountRate:  spec.DiscountRate,
		StockQuantity: spec.StockQuantity,
	}

	variant.Options = make([]models.VariantOption, 0, len(spec.OptionValues))
	for _, pair := range spec.OptionValues {
		variant.Options = append(variant.Options, models.VariantOption{
			OptionTypeID:  pair.OptionTypeID,
			OptionValueID: pair.OptionValueID,
		})
	}

	return variant
}
