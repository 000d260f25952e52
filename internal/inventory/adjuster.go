// Package inventory applies signed stock deltas to product variants with a
// non-negative-stock guard. Planning is pure; application happens inside a
// single storage transaction so a failing batch never commits a partial
// reduction.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"commerce-service/internal/domain"
	"commerce-service/internal/models"
	"commerce-service/internal/util"

	"go.uber.org/zap"
)

// Adjustment is the post-application snapshot for one variant, consumed by
// order-line snapshotting downstream.
type Adjustment struct {
	ProductVariantID int64  `json:"product_variant_id"`
	SKU              string `json:"sku"`
	Quantity         int    `json:"quantity"`
	OriginalPrice    int64  `json:"original_price"`
	DiscountedPrice  int64  `json:"discounted_price"`
	RemainingStock   int    `json:"remaining_stock"`
}

// Plan computes the batch outcome without mutating anything. Deltas are
// signed: negative reduces, positive restores. Every entry is checked before
// any is applied, so one failing entry fails the whole batch with stock
// untouched. Missing variants fail with NotFoundVariant; a reduction that
// would drive stock negative fails with OutOfStock.
func Plan(variants []models.ProductVariant, deltas map[int64]int) ([]Adjustment, error) {
	byID := make(map[int64]models.ProductVariant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	adjustments := make([]Adjustment, 0, len(ids))
	for _, id := range ids {
		variant, ok := byID[id]
		if !ok {
			return nil, domain.NewIDError(domain.KindNotFoundVariant, "product variant not found", id)
		}

		newStock := variant.StockQuantity + deltas[id]
		if newStock < 0 {
			return nil, domain.NewIDError(domain.KindOutOfStock,
				fmt.Sprintf("stock %d cannot cover requested %d", variant.StockQuantity, -deltas[id]), id)
		}

		adjustments = append(adjustments, Adjustment{
			ProductVariantID: id,
			SKU:              variant.SKU,
			Quantity:         deltas[id],
			OriginalPrice:    variant.OriginalPrice,
			DiscountedPrice:  variant.DiscountedPrice(),
			RemainingStock:   newStock,
		})
	}

	return adjustments, nil
}

// VariantTx is one storage transaction holding row locks on the variants it
// was opened for.
type VariantTx interface {
	Variants() []models.ProductVariant
	UpdateStock(ctx context.Context, variantID int64, stock int) error
	Commit() error
	Rollback() error
}

// Store opens locking transactions over variant rows.
type Store interface {
	BeginVariantTx(ctx context.Context, variantIDs []int64) (VariantTx, error)
}

// Adjuster applies stock deltas through the store. It holds no state between
// calls; atomicity comes from the surrounding transaction, serialization from
// the storage layer's row locks.
type Adjuster struct {
	store  Store
	logger *zap.Logger
}

// NewAdjuster creates an adjuster over the given store.
func NewAdjuster(store Store) *Adjuster {
	return &Adjuster{store: store, logger: util.GetLogger()}
}

// Reduce debits stock per entry (checkout). Quantities are positive amounts
// to subtract.
func (a *Adjuster) Reduce(ctx context.Context, quantities map[int64]int) ([]Adjustment, error) {
	deltas := make(map[int64]int, len(quantities))
	for id, qty := range quantities {
		deltas[id] = -qty
	}

	adjustments, err := a.apply(ctx, deltas)
	if err != nil {
		util.StockReductionsFailed.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	util.StockReductionsTotal.Inc()
	return adjustments, nil
}

// Restore credits stock per entry (cancellation/compensation). There is no
// upper bound; restoration succeeds whenever every variant exists.
func (a *Adjuster) Restore(ctx context.Context, quantities map[int64]int) ([]Adjustment, error) {
	deltas := make(map[int64]int, len(quantities))
	for id, qty := range quantities {
		deltas[id] = qty
	}

	adjustments, err := a.apply(ctx, deltas)
	if err != nil {
		return nil, err
	}

	util.StockRestorationsTotal.Inc()
	return adjustments, nil
}

func (a *Adjuster) apply(ctx context.Context, deltas map[int64]int) ([]Adjustment, error) {
	if len(deltas) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tx, err := a.store.BeginVariantTx(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("begin variant tx: %w", err)
	}
	defer tx.Rollback()

	adjustments, err := Plan(tx.Variants(), deltas)
	if err != nil {
		return nil, err
	}

	for _, adj := range adjustments {
		if err := tx.UpdateStock(ctx, adj.ProductVariantID, adj.RemainingStock); err != nil {
			return nil, fmt.Errorf("update stock for variant %d: %w", adj.ProductVariantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock adjustment: %w", err)
	}

	a.logger.Info("Stock adjusted", zap.Int("variants", len(adjustments)))
	return adjustments, nil
}

func failureReason(err error) string {
	switch domain.KindOf(err) {
	case domain.KindOutOfStock:
		return "out_of_stock"
	case domain.KindNotFoundVariant:
		return "variant_not_found"
	default:
		return "error"
	}
}
