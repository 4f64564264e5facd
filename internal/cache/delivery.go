// Package cache provides an optional Redis cache for single-delivery reads.
// The service layer treats it as best-effort: a cache failure never fails the
// request, it only falls back to the repository.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// ttl bounds staleness of cached deliveries between invalidations.
const ttl = 5 * time.Minute

// DeliveryCache caches deliveries by id in Redis as JSON.
type DeliveryCache struct {
	client *redis.Client
}

// NewDeliveryCache connects to Redis at addr and verifies the connection.
func NewDeliveryCache(addr string) (*DeliveryCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("cache.NewDeliveryCache: ping: %w", err)
	}
	return &DeliveryCache{client: client}, nil
}

// Close releases the underlying Redis connection.
func (c *DeliveryCache) Close() error {
	return c.client.Close()
}

func key(id int64) string {
	return fmt.Sprintf("delivery:%d", id)
}

// Get returns the cached delivery, or nil on a cache miss.
func (c *DeliveryCache) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("cache.DeliveryCache.Get: %w", err)
	}

	var delivery domain.Delivery
	if err := json.Unmarshal(data, &delivery); err != nil {
		return nil, fmt.Errorf("cache.DeliveryCache.Get: unmarshal: %w", err)
	}
	return &delivery, nil
}

// Set stores the delivery under its id.
func (c *DeliveryCache) Set(ctx context.Context, delivery domain.Delivery) error {
	data, err := json.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("cache.DeliveryCache.Set: marshal: %w", err)
	}
	if err := c.client.Set(ctx, key(delivery.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache.DeliveryCache.Set: %w", err)
	}
	return nil
}

// Invalidate removes the cached delivery after a mutation.
func (c *DeliveryCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache.DeliveryCache.Invalidate: %w", err)
	}
	return nil
}
