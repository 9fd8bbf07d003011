package variant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "gorden:variants:"

// Cache stores the rendered variant table per product in Redis. All methods
// degrade to cache-miss behavior when the client is absent, so tests and
// degraded deployments work without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached variant list for a product and whether it existed.
func (c *Cache) Get(ctx context.Context, productID string) ([]Variant, bool, error) {
	if c == nil || c.client == nil || productID == "" {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, cacheKeyPrefix+productID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var variants []Variant
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil, false, err
	}
	return variants, true, nil
}

// Set stores the variant list with the configured TTL.
func (c *Cache) Set(ctx context.Context, productID string, variants []Variant) error {
	if c == nil || c.client == nil || productID == "" || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(variants)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+productID, data, c.ttl).Err()
}

// Invalidate drops the cached list after a regeneration.
func (c *Cache) Invalidate(ctx context.Context, productID string) error {
	if c == nil || c.client == nil || productID == "" {
		return nil
	}
	return c.client.Del(ctx, cacheKeyPrefix+productID).Err()
}
