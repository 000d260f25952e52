package store

import (
	"context"
	"fmt"

	"commerce-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// VariantTx holds row locks on a set of product variants for the duration of
// one stock adjustment.
type VariantTx struct {
	tx       *sqlx.Tx
	variants []models.ProductVariant
}

// BeginVariantTx opens a transaction and locks the given variant rows with
// SELECT ... FOR UPDATE. Rows are locked in ascending ID order to avoid
// deadlocks between concurrent adjustments. Missing IDs are not an error
// here; the caller detects them against the returned rows.
func (s *Store) BeginVariantTx(ctx context.Context, variantIDs []int64) (*VariantTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(
		"SELECT * FROM product_variants WHERE id IN (?) ORDER BY id FOR UPDATE", variantIDs)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	query = tx.Rebind(query)

	var variants []models.ProductVariant
	if err := tx.SelectContext(ctx, &variants, query, args...); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock variants: %w", err)
	}

	return &VariantTx{tx: tx, variants: variants}, nil
}

// Variants returns the locked rows.
func (t *VariantTx) Variants() []models.ProductVariant {
	return t.variants
}

// UpdateStock sets the stock of a locked variant.
func (t *VariantTx) UpdateStock(ctx context.Context, variantID int64, stock int) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE product_variants SET stock_quantity = $1 WHERE id = $2",
		stock, variantID)
	return err
}

// Commit commits the transaction and releases the locks.
func (t *VariantTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Safe to call after Commit.
func (t *VariantTx) Rollback() error {
	return t.tx.Rollback()
}
