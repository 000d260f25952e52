package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"commerce-service/internal/pricing"
	"commerce-service/internal/util"
)

// CouponClient talks to the promotion service. Resolving a coupon yields the
// exact discount amount to apply; redemption is confirmed only after the
// order is persisted.
type CouponClient struct {
	baseURL string
	client  *http.Client
}

// NewCouponClient creates a new promotion service client
func NewCouponClient(baseURL string) *CouponClient {
	return &CouponClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type couponResponse struct {
	CouponID       int64  `json:"coupon_id"`
	Name           string `json:"name"`
	DiscountAmount int64  `json:"discount_amount"`
}

// ResolveCoupon fetches the coupon a user intends to apply.
func (cc *CouponClient) ResolveCoupon(ctx context.Context, userID, couponID int64) (*pricing.CouponApplication, error) {
	ctx, span := util.StartSpan(ctx, "CouponClient.ResolveCoupon")
	defer span.End()

	url := fmt.Sprintf("%s/internal/users/%d/coupons/%d", cc.baseURL, userID, couponID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := cc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("promotion service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("promotion service returned status %d for coupon %d", resp.StatusCode, couponID)
	}

	var body couponResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode coupon: %w", err)
	}

	return &pricing.CouponApplication{
		CouponID:       body.CouponID,
		CouponName:     body.Name,
		DiscountAmount: body.DiscountAmount,
	}, nil
}

type couponUseRequest struct {
	OrderID int64 `json:"order_id"`
}

// RedeemCoupon marks the coupon as used for the given order.
func (cc *CouponClient) RedeemCoupon(ctx context.Context, userID, couponID, orderID int64) error {
	return cc.post(ctx, fmt.Sprintf("%s/internal/users/%d/coupons/%d/redeem", cc.baseURL, userID, couponID), orderID)
}

// ReleaseCoupon returns the coupon to the user on cancellation.
func (cc *CouponClient) ReleaseCoupon(ctx context.Context, userID, couponID, orderID int64) error {
	return cc.post(ctx, fmt.Sprintf("%s/internal/users/%d/coupons/%d/release", cc.baseURL, userID, couponID), orderID)
}

func (cc *CouponClient) post(ctx context.Context, url string, orderID int64) error {
	body, err := json.Marshal(couponUseRequest{OrderID: orderID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cc.client.Do(req)
	if err != nil {
		return fmt.Errorf("promotion service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coupon operation failed with status %d", resp.StatusCode)
	}

	return nil
}
