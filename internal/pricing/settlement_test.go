package pricing

import (
	"testing"

	"commerce-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calcFixture() ItemCalculationResult {
	return ItemCalculationResult{
		TotalOriginalPrice:   34000,
		TotalProductDiscount: 3400,
		SubTotalPrice:        30600,
	}
}

func TestSettleWithCouponAndPoints(t *testing.T) {
	coupon := &CouponApplication{CouponID: 10, CouponName: "WELCOME", DiscountAmount: 1000}

	settlement, err := Settle(calcFixture(), 1000, 5000, 28600, coupon)

	require.NoError(t, err)
	assert.Equal(t, int64(34000), settlement.TotalOriginPrice)
	assert.Equal(t, int64(3400), settlement.TotalProductDiscount)
	assert.Equal(t, int64(1000), settlement.CouponDiscount)
	assert.Equal(t, int64(1000), settlement.UsedPoint)
	assert.Equal(t, int64(28600), settlement.FinalPaymentAmount)
	assert.Equal(t, coupon, settlement.AppliedCoupon)
}

func TestSettleWithoutCoupon(t *testing.T) {
	settlement, err := Settle(calcFixture(), 0, 0, 30600, nil)

	require.NoError(t, err)
	assert.Zero(t, settlement.CouponDiscount)
	assert.Nil(t, settlement.AppliedCoupon)
	assert.Equal(t, int64(30600), settlement.FinalPaymentAmount)
}

func TestSettlePriceDrift(t *testing.T) {
	coupon := &CouponApplication{CouponID: 10, DiscountAmount: 1000}

	_, err := Settle(calcFixture(), 1000, 5000, 29600, coupon)

	require.Error(t, err)
	assert.Equal(t, domain.KindPriceDriftDetected, domain.KindOf(err))
}

func TestSettlePriceDriftOffByOne(t *testing.T) {
	_, err := Settle(calcFixture(), 0, 0, 30601, nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindPriceDriftDetected, domain.KindOf(err))

	_, err = Settle(calcFixture(), 0, 0, 30599, nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindPriceDriftDetected, domain.KindOf(err))
}

func TestSettleInsufficientPoints(t *testing.T) {
	_, err := Settle(calcFixture(), 1000, 100, 29600, nil)

	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientPointBalance, domain.KindOf(err))
}

func TestSettlePointCheckPrecedesDriftCheck(t *testing.T) {
	// Even with a wildly wrong expected total, the balance guard fires first.
	_, err := Settle(calcFixture(), 1000, 100, -1, nil)

	assert.Equal(t, domain.KindInsufficientPointBalance, domain.KindOf(err))
}

func TestSettleExactBalance(t *testing.T) {
	settlement, err := Settle(calcFixture(), 500, 500, 30100, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(30100), settlement.FinalPaymentAmount)
}
