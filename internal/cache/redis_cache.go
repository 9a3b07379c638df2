package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
)

const redisKeyPrefix = "quote:distance:"

// RedisCache shares distance results between service instances. Expiry is
// delegated to Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

type redisEntry struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin *int    `json:"duration_min,omitempty"`
}

// Get returns the cached result for key.
func (c *RedisCache) Get(ctx context.Context, key string) (quote.DistanceResult, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return quote.DistanceResult{}, false, nil
	}
	if err != nil {
		return quote.DistanceResult{}, false, fmt.Errorf("redis get distance: %w", err)
	}

	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return quote.DistanceResult{}, false, fmt.Errorf("decode cached distance: %w", err)
	}
	return quote.DistanceResult{DistanceKm: e.DistanceKm, DurationMin: e.DurationMin, Source: quote.SourceCache}, true, nil
}

// Put stores result under key with the cache TTL.
func (c *RedisCache) Put(ctx context.Context, key string, result quote.DistanceResult) error {
	raw, err := json.Marshal(redisEntry{DistanceKm: result.DistanceKm, DurationMin: result.DurationMin})
	if err != nil {
		return fmt.Errorf("encode distance: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set distance: %w", err)
	}
	return nil
}
