package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"commerce-service/internal/redisclient"
	"commerce-service/internal/util"

	"go.uber.org/zap"
)

const pointBalanceCacheTTL = 30 * time.Second

// UserClient talks to the user service for point balances. Balances are
// cached briefly in Redis; a lookup failure is a hard error, never treated
// as a zero balance.
type UserClient struct {
	baseURL string
	client  *http.Client
	redis   *redisclient.Client
	logger  *zap.Logger
}

// NewUserClient creates a new user service client
func NewUserClient(baseURL string, redis *redisclient.Client) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		redis:   redis,
		logger:  util.GetLogger(),
	}
}

type pointBalanceResponse struct {
	UserID  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}

// GetPointBalance returns the user's current point balance.
func (uc *UserClient) GetPointBalance(ctx context.Context, userID int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "UserClient.GetPointBalance")
	defer span.End()

	if uc.redis != nil {
		balance, found, err := uc.redis.GetCachedPointBalance(ctx, userID)
		if err != nil {
			uc.logger.Warn("Point balance cache lookup failed", zap.Error(err))
		} else if found {
			return balance, nil
		}
	}

	url := fmt.Sprintf("%s/internal/users/%d/points", uc.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := uc.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("user service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("user service returned status %d for user %d", resp.StatusCode, userID)
	}

	var body pointBalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode point balance: %w", err)
	}

	if uc.redis != nil {
		if err := uc.redis.CachePointBalance(ctx, userID, body.Balance, pointBalanceCacheTTL); err != nil {
			uc.logger.Warn("Failed to cache point balance", zap.Error(err))
		}
	}

	return body.Balance, nil
}

type pointAdjustRequest struct {
	Amount  int64  `json:"amount"`
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// DeductPoints debits points from the user's balance after settlement.
func (uc *UserClient) DeductPoints(ctx context.Context, userID, amount, orderID int64) error {
	return uc.adjustPoints(ctx, userID, pointAdjustRequest{Amount: -amount, OrderID: orderID, Reason: "ORDER_PAYMENT"})
}

// RefundPoints credits points back on cancellation.
func (uc *UserClient) RefundPoints(ctx context.Context, userID, amount, orderID int64) error {
	return uc.adjustPoints(ctx, userID, pointAdjustRequest{Amount: amount, OrderID: orderID, Reason: "ORDER_CANCELLED"})
}

func (uc *UserClient) adjustPoints(ctx context.Context, userID int64, payload pointAdjustRequest) error {
	ctx, span := util.StartSpan(ctx, "UserClient.adjustPoints")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/internal/users/%d/points/adjust", uc.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := uc.client.Do(req)
	if err != nil {
		return fmt.Errorf("user service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("point adjustment failed with status %d for user %d", resp.StatusCode, userID)
	}

	if uc.redis != nil {
		if err := uc.redis.InvalidatePointBalance(ctx, userID); err != nil {
			uc.logger.Warn("Failed to invalidate point balance cache", zap.Error(err))
		}
	}

	return nil
}
