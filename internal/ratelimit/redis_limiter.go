package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "quote:ratelimit:"

// windowScript increments the counter and, in the same step, gives the key a
// TTL whenever it has none. A key left without expiry heals on the next call.
var windowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisLimiter is a fixed-window counter shared by every replica through Redis.
type RedisLimiter struct {
	client *redis.Client
	max    int
	period time.Duration
}

// NewRedisLimiter allows max requests per key in every period.
func NewRedisLimiter(client *redis.Client, max int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, period: period}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := windowScript.Run(ctx, l.client, []string{redisKeyPrefix + key}, l.period.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("rate limit %s: unexpected script reply %v", key, res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count <= int64(l.max) {
		return true, 0, nil
	}
	if ttl <= 0 {
		ttl = l.period
	}
	return false, ttl, nil
}
