package service

import (
	"context"
	"fmt"

	"commerce-service/internal/inventory"
	"commerce-service/internal/models"
	"commerce-service/internal/redisclient"
	"commerce-service/internal/store"
	"commerce-service/internal/util"

	"go.uber.org/zap"
)

// StockService consumes stock restoration requests. Restoration is applied
// at most once per event via the processed_events table, so redelivered
// messages never double-credit stock.
type StockService struct {
	store    *store.Store
	redis    stockMirror
	adjuster *inventory.Adjuster
	logger   *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(st *store.Store, redis *redisclient.Client) *StockService {
	svc := &StockService{
		store:    st,
		adjuster: inventory.NewAdjuster(variantTxSource{st: st}),
		logger:   util.GetLogger(),
	}
	if redis != nil {
		svc.redis = redis
	}
	return svc
}

// HandleStockRestore restores stock for a cancelled order.
func (ss *StockService) HandleStockRestore(ctx context.Context, event *models.StockRestoreEvent) error {
	ctx, span := util.StartSpan(ctx, "StockService.HandleStockRestore")
	defer span.End()

	processed, err := ss.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		ss.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	quantities := make(map[int64]int, len(event.Items))
	for _, item := range event.Items {
		quantities[item.ProductVariantID] += item.Quantity
	}

	adjustments, err := ss.adjuster.Restore(ctx, quantities)
	if err != nil {
		return fmt.Errorf("failed to restore stock for order %d: %w", event.OrderID, err)
	}

	// Credit the mirror with the same deltas. The guarded increment no-ops
	// on unmirrored variants instead of seeding keys from a stale snapshot.
	if ss.redis != nil {
		restoreMirrorReductions(ctx, ss.redis, quantities, ss.logger)
	}

	if err := ss.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		ss.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	ss.logger.Info("Stock restored",
		zap.Int64("order_id", event.OrderID),
		zap.Int("variants", len(adjustments)))
	return nil
}
