// Package redisclient mirrors variant stock levels in Redis for cheap
// pre-checks and caches external lookups. The database stays authoritative;
// everything here is best effort.
package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/reduce_stock.lua
var reduceStockScript string

//go:embed scripts/restore_stock.lua
var restoreStockScript string

type Client struct {
	rdb           *redis.Client
	reduceScript  *redis.Script
	restoreScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		reduceScript:  redis.NewScript(reduceStockScript),
		restoreScript: redis.NewScript(restoreStockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(variantID int64) string {
	return fmt.Sprintf("stock:%d", variantID)
}

// MirrorStock sets the mirrored stock level of a variant.
func (c *Client) MirrorStock(ctx context.Context, variantID int64, quantity int) error {
	return c.rdb.Set(ctx, stockKey(variantID), quantity, 0).Err()
}

// ReduceStock atomically reduces the mirrored stock using a Lua script.
// Returns false only when the mirror explicitly cannot cover the quantity;
// an unmirrored variant passes, since the mirror has no opinion on it. A
// false result fails the order fast, before any database work.
func (c *Client) ReduceStock(ctx context.Context, variantID int64, quantity int) (bool, error) {
	result, err := c.reduceScript.Run(ctx, c.rdb, []string{stockKey(variantID)}, quantity).Result()
	if err != nil {
		return false, fmt.Errorf("reduce stock script failed: %w", err)
	}

	status, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}

	return status != 0, nil
}

// RestoreStock atomically restores mirrored stock (compensation)
func (c *Client) RestoreStock(ctx context.Context, variantID int64, quantity int) error {
	_, err := c.restoreScript.Run(ctx, c.rdb, []string{stockKey(variantID)}, quantity).Result()
	if err != nil {
		return fmt.Errorf("restore stock script failed: %w", err)
	}

	return nil
}

// GetStock retrieves the mirrored stock level. Returns found=false when the
// variant is not mirrored.
func (c *Client) GetStock(ctx context.Context, variantID int64) (quantity int, found bool, err error) {
	result, err := c.rdb.Get(ctx, stockKey(variantID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var stock int
	fmt.Sscanf(result, "%d", &stock)
	return stock, true, nil
}

// CachePointBalance caches a user's point balance with TTL.
func (c *Client) CachePointBalance(ctx context.Context, userID, balance int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("points:%d", userID), balance, ttl).Err()
}

// GetCachedPointBalance retrieves a cached point balance. Returns
// found=false on a cache miss.
func (c *Client) GetCachedPointBalance(ctx context.Context, userID int64) (balance int64, found bool, err error) {
	result, err := c.rdb.Get(ctx, fmt.Sprintf("points:%d", userID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	fmt.Sscanf(result, "%d", &balance)
	return balance, true, nil
}

// InvalidatePointBalance drops a user's cached point balance.
func (c *Client) InvalidatePointBalance(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf("points:%d", userID)).Err()
}

// SetIdempotencyKey stores an idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Err()
}

// CheckIdempotencyKey checks if an idempotency key exists
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// AcquireLock acquires a distributed lock
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
