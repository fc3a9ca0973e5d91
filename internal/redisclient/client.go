package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecommerce-api/internal/models"

	"github.com/go-redis/redis/v8"
)

// ProductCacheTTL bounds how stale a cached product snapshot can get.
const ProductCacheTTL = 30 * time.Second

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
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

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func cartCountKey(userID int64) string {
	return fmt.Sprintf("cart:count:%d", userID)
}

// GetProduct returns a cached product snapshot, or nil on miss.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.rdb.Del(ctx, productKey(id))
		return nil, nil
	}
	return &p, nil
}

// SetProduct caches a product snapshot with a short TTL.
func (c *Client) SetProduct(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(p.ID.Hex()), raw, ProductCacheTTL).Err()
}

// InvalidateProduct drops the cached snapshot after a catalog mutation.
func (c *Client) InvalidateProduct(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}

// GetCartCount returns the cached cart item count for a user. The second
// result reports whether a value was cached.
func (c *Client) GetCartCount(ctx context.Context, userID int64) (int, bool, error) {
	count, err := c.rdb.Get(ctx, cartCountKey(userID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// SetCartCount caches a user's cart item count.
func (c *Client) SetCartCount(ctx context.Context, userID int64, count int) error {
	return c.rdb.Set(ctx, cartCountKey(userID), count, 5*time.Minute).Err()
}

// InvalidateCartCount drops the cached count after a cart mutation.
func (c *Client) InvalidateCartCount(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, cartCountKey(userID)).Err()
}
