package store

import (
	"context"
	"database/sql"
	"fmt"

	"commerce-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// SaveProduct persists a full product aggregate (product, declared option
// types, variants and their option links) in one transaction and fills in
// the generated IDs.
func (s *Store) SaveProduct(ctx context.Context, product *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, product, `
		INSERT INTO products (category_id, name, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		product.CategoryID, product.Name, product.Description, product.Status)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	for i := range product.OptionTypes {
		pot := &product.OptionTypes[i]
		pot.ProductID = product.ID
		err = tx.GetContext(ctx, &pot.ID, `
			INSERT INTO product_option_types (product_id, option_type_id, priority, active)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			pot.ProductID, pot.OptionTypeID, pot.Priority, pot.Active)
		if err != nil {
			return fmt.Errorf("failed to insert product option type: %w", err)
		}
	}

	for i := range product.Variants {
		if err := insertVariantTx(ctx, tx, product.ID, &product.Variants[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AddVariant persists a single new variant of an existing product.
func (s *Store) AddVariant(ctx context.Context, productID int64, variant *models.ProductVariant) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertVariantTx(ctx, tx, productID, variant); err != nil {
		return err
	}

	return tx.Commit()
}

func insertVariantTx(ctx context.Context, tx *sqlx.Tx, productID int64, variant *models.ProductVariant) error {
	variant.ProductID = productID
	err := tx.GetContext(ctx, variant, `
		INSERT INTO product_variants (product_id, sku, original_price, discount_rate, stock_quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		variant.ProductID, variant.SKU, variant.OriginalPrice, variant.DiscountRate, variant.StockQuantity)
	if err != nil {
		return fmt.Errorf("failed to insert variant %s: %w", variant.SKU, err)
	}

	for i := range variant.Options {
		opt := &variant.Options[i]
		opt.VariantID = variant.ID
		err = tx.GetContext(ctx, &opt.ID, `
			INSERT INTO variant_option_values (variant_id, option_type_id, option_value_id)
			VALUES ($1, $2, $3)
			RETURNING id`,
			opt.VariantID, opt.OptionTypeID, opt.OptionValueID)
		if err != nil {
			return fmt.Errorf("failed to insert variant option: %w", err)
		}
	}

	return nil
}

// GetProductByID loads a full product aggregate. Returns (nil, nil) when the
// product does not exist.
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &product.OptionTypes,
		"SELECT * FROM product_option_types WHERE product_id = $1 ORDER BY priority", id)
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &product.Variants,
		"SELECT * FROM product_variants WHERE product_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, err
	}

	if len(product.Variants) > 0 {
		variantIDs := make([]int64, len(product.Variants))
		for i, v := range product.Variants {
			variantIDs[i] = v.ID
		}

		query, args, err := sqlx.In("SELECT * FROM variant_option_values WHERE variant_id IN (?)", variantIDs)
		if err != nil {
			return nil, err
		}
		query = s.db.Rebind(query)

		var options []models.VariantOption
		if err := s.db.SelectContext(ctx, &options, query, args...); err != nil {
			return nil, err
		}

		byVariant := make(map[int64][]models.VariantOption, len(product.Variants))
		for _, opt := range options {
			byVariant[opt.VariantID] = append(byVariant[opt.VariantID], opt)
		}
		for i := range product.Variants {
			product.Variants[i].Options = byVariant[product.Variants[i].ID]
		}
	}

	return &product, nil
}

// GetVariantsByIDs retrieves variants by IDs. Missing IDs simply do not
// appear in the result.
func (s *Store) GetVariantsByIDs(ctx context.Context, ids []int64) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return []models.ProductVariant{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM product_variants WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var variants []models.ProductVariant
	err = s.db.SelectContext(ctx, &variants, query, args...)
	return variants, err
}
