package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCacheRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, 12*time.Hour)
	minutes := 25

	require.NoError(t, c.Put(ctx, "brisbane airport|south bank", quote.DistanceResult{DistanceKm: 18.4, DurationMin: &minutes, Source: quote.SourceGoogle}))
	assert.True(t, mr.Exists("quote:distance:brisbane airport|south bank"))

	got, ok, err := c.Get(ctx, "brisbane airport|south bank")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 18.4, got.DistanceKm)
	assert.Equal(t, 25, *got.DurationMin)
	assert.Equal(t, quote.SourceCache, got.Source)

	mr.FastForward(12 * time.Hour)
	_, ok, err = c.Get(ctx, "brisbane airport|south bank")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("quote:distance:k", "{not json"))

	_, ok, err := NewRedisCache(client, time.Hour).Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	mr.Close()

	_, _, err := NewRedisCache(client, time.Hour).Get(ctx, "k")
	assert.Error(t, err)
}
