package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pricewise/pricewise-api/internal/models"
)

// KeyValue is the subset of RedisClient used by ProductCache.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedProduct wraps a catalog product with the time it was cached.
type CachedProduct struct {
	Product  models.Product `json:"product"`
	CachedAt time.Time      `json:"cachedAt"`
}

// ProductCache caches catalog products by id.
type ProductCache struct {
	kv  KeyValue
	ttl time.Duration
}

// NewProductCache creates a ProductCache whose entries expire after ttl.
func NewProductCache(kv KeyValue, ttl time.Duration) *ProductCache {
	return &ProductCache{kv: kv, ttl: ttl}
}

// keyByID returns the redis key of a product.
func (c *ProductCache) keyByID(id int) string {
	return "catalog:product:" + strconv.Itoa(id)
}

// Get returns the cached product. A miss returns (nil, nil).
func (c *ProductCache) Get(ctx context.Context, id int) (*models.Product, error) {
	raw, err := c.kv.Get(ctx, c.keyByID(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedProduct
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product: %w", err)
	}
	return &cached.Product, nil
}

// Set stores p until the cache TTL elapses.
func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(CachedProduct{Product: *p, CachedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := c.kv.Set(ctx, c.keyByID(p.ID), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to cache product %d: %w", p.ID, err)
	}
	return nil
}

// Delete evicts a product.
func (c *ProductCache) Delete(ctx context.Context, id int) error {
	return c.kv.Delete(ctx, c.keyByID(id))
}
