package pricing

import (
	"commerce-service/internal/domain"
)

// CouponApplication is an optional coupon discount resolved by the coupon
// service. A nil application means no coupon: zero discount, no coupon info
// on the settlement.
type CouponApplication struct {
	CouponID       int64  `json:"coupon_id"`
	CouponName     string `json:"coupon_name"`
	DiscountAmount int64  `json:"discount_amount"`
}

// PriceSettlement is the reconciled order amount breakdown.
type PriceSettlement struct {
	TotalOriginPrice     int64              `json:"total_origin_price"`
	TotalProductDiscount int64              `json:"total_product_discount"`
	CouponDiscount       int64              `json:"coupon_discount"`
	UsedPoint            int64              `json:"used_point"`
	FinalPaymentAmount   int64              `json:"final_payment_amount"`
	AppliedCoupon        *CouponApplication `json:"applied_coupon,omitempty"`
}

// Settle applies the coupon and point discounts to an item calculation and
// validates the result against the caller's expected total. The expected
// total guards against price drift between the client-side quote and
// settlement; a mismatch means the client must refresh and retry.
func Settle(calc ItemCalculationResult, usedPoint, pointBalance, expectedTotal int64,
	coupon *CouponApplication) (PriceSettlement, error) {

	var couponDiscount int64
	if coupon != nil {
		couponDiscount = coupon.DiscountAmount
	}

	if usedPoint > pointBalance {
		return PriceSettlement{}, domain.NewError(domain.KindInsufficientPointBalance,
			"requested point redemption exceeds balance")
	}

	finalPaymentAmount := calc.SubTotalPrice - couponDiscount - usedPoint
	if finalPaymentAmount != expectedTotal {
		return PriceSettlement{}, domain.NewError(domain.KindPriceDriftDetected,
			"order amount changed since the client quote")
	}

	return PriceSettlement{
		TotalOriginPrice:     calc.TotalOriginalPrice,
		TotalProductDiscount: calc.TotalProductDiscount,
		CouponDiscount:       couponDiscount,
		UsedPoint:            usedPoint,
		FinalPaymentAmount:   finalPaymentAmount,
		AppliedCoupon:        coupon,
	}, nil
}
