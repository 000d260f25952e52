package service

import (
	"context"
	"sort"

	"commerce-service/internal/domain"

	"go.uber.org/zap"
)

// stockMirror is the slice of the redis client the services touch. The
// database stays authoritative; every call here is best effort.
type stockMirror interface {
	MirrorStock(ctx context.Context, variantID int64, quantity int) error
	ReduceStock(ctx context.Context, variantID int64, quantity int) (bool, error)
	RestoreStock(ctx context.Context, variantID int64, quantity int) error
	GetStock(ctx context.Context, variantID int64) (int, bool, error)
}

// precheckStock walks the mirror before any database work and fails fast
// when it already knows the stock cannot cover the request. A mirror error
// or an unmirrored variant passes; only an explicit refusal rejects. On
// refusal the decrements applied so far are handed back.
func precheckStock(ctx context.Context, mirror stockMirror, quantities map[int64]int, logger *zap.Logger) error {
	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	reduced := make(map[int64]int, len(ids))
	for _, id := range ids {
		ok, err := mirror.ReduceStock(ctx, id, quantities[id])
		if err != nil {
			logger.Warn("Stock mirror precheck unavailable",
				zap.Int64("variant_id", id),
				zap.Error(err))
			continue
		}
		if !ok {
			restoreMirrorReductions(ctx, mirror, reduced, logger)
			return domain.NewIDError(domain.KindOutOfStock, "insufficient stock", id)
		}
		reduced[id] = quantities[id]
	}
	return nil
}

// restoreMirrorReductions hands mirror decrements back after the database
// path failed. Restoring an unmirrored key is a no-op, so this is safe to
// issue blindly.
func restoreMirrorReductions(ctx context.Context, mirror stockMirror, quantities map[int64]int, logger *zap.Logger) {
	for id, qty := range quantities {
		if err := mirror.RestoreStock(ctx, id, qty); err != nil {
			logger.Warn("Failed to restore mirrored stock",
				zap.Int64("variant_id", id),
				zap.Error(err))
		}
	}
}
