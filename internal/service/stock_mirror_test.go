package service

import (
	"context"
	"errors"
	"testing"

	"commerce-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMirror holds stock for mirrored variants only; variants absent from
// the map behave like unmirrored keys.
type fakeMirror struct {
	stock    map[int64]int
	errOn    map[int64]bool
	restored map[int64]int
}

func newFakeMirror(stock map[int64]int) *fakeMirror {
	return &fakeMirror{
		stock:    stock,
		errOn:    make(map[int64]bool),
		restored: make(map[int64]int),
	}
}

func (m *fakeMirror) MirrorStock(ctx context.Context, variantID int64, quantity int) error {
	m.stock[variantID] = quantity
	return nil
}

func (m *fakeMirror) ReduceStock(ctx context.Context, variantID int64, quantity int) (bool, error) {
	if m.errOn[variantID] {
		return false, errors.New("connection refused")
	}
	current, ok := m.stock[variantID]
	if !ok {
		return true, nil
	}
	if current < quantity {
		return false, nil
	}
	m.stock[variantID] = current - quantity
	return true, nil
}

func (m *fakeMirror) RestoreStock(ctx context.Context, variantID int64, quantity int) error {
	m.restored[variantID] += quantity
	if _, ok := m.stock[variantID]; ok {
		m.stock[variantID] += quantity
	}
	return nil
}

func (m *fakeMirror) GetStock(ctx context.Context, variantID int64) (int, bool, error) {
	quantity, ok := m.stock[variantID]
	return quantity, ok, nil
}

func TestPrecheckStockPasses(t *testing.T) {
	mirror := newFakeMirror(map[int64]int{1: 5, 2: 20})

	err := precheckStock(context.Background(), mirror, map[int64]int{1: 3, 2: 5}, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 2, mirror.stock[1])
	assert.Equal(t, 15, mirror.stock[2])
}

func TestPrecheckStockRejectsAndRollsBack(t *testing.T) {
	mirror := newFakeMirror(map[int64]int{1: 5, 2: 5})

	err := precheckStock(context.Background(), mirror, map[int64]int{1: 3, 2: 10}, zap.NewNop())

	require.Error(t, err)
	assert.Equal(t, domain.KindOutOfStock, domain.KindOf(err))

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, int64(2), derr.ID)

	// The decrement applied to variant 1 was handed back.
	assert.Equal(t, 5, mirror.stock[1])
	assert.Equal(t, 5, mirror.stock[2])
	assert.Zero(t, mirror.restored[2])
}

func TestPrecheckStockPassesUnmirroredVariants(t *testing.T) {
	mirror := newFakeMirror(map[int64]int{2: 20})

	err := precheckStock(context.Background(), mirror, map[int64]int{1: 3, 2: 5}, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 15, mirror.stock[2])
}

func TestPrecheckStockToleratesMirrorErrors(t *testing.T) {
	mirror := newFakeMirror(map[int64]int{1: 1})
	mirror.errOn[1] = true

	err := precheckStock(context.Background(), mirror, map[int64]int{1: 10}, zap.NewNop())

	require.NoError(t, err)
}

func TestGetVariantStockServesFromMirror(t *testing.T) {
	mirror := newFakeMirror(map[int64]int{7: 12})
	ps := &ProductService{redis: mirror, logger: zap.NewNop()}

	quantity, err := ps.GetVariantStock(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 12, quantity)
}

func TestRestoreMirrorReductions(t *testing.T) {
	mirror := newFakeMirror(map[int64]int{1: 2})

	restoreMirrorReductions(context.Background(), mirror, map[int64]int{1: 3, 2: 4}, zap.NewNop())

	assert.Equal(t, 5, mirror.stock[1])
	assert.Equal(t, 4, mirror.restored[2])
}
