package cache

import (
	"context"
	"sync"
	"time"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
)

type memoryEntry struct {
	result    quote.DistanceResult
	expiresAt time.Time
}

// MemoryCache is a process-local distance cache with a fixed TTL. It is safe
// for concurrent use; the clock is injectable so expiry can be tested.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache. A nil clock means time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the entry for key unless it is missing or expired.
func (c *MemoryCache) Get(_ context.Context, key string) (quote.DistanceResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return quote.DistanceResult{}, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return quote.DistanceResult{}, false, nil
	}
	return e.result, true, nil
}

// Put stores result under key until now+ttl.
func (c *MemoryCache) Put(_ context.Context, key string, result quote.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{result: result, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Purge drops every expired entry and returns how many were removed.
func (c *MemoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RunJanitor purges expired entries every interval until ctx is done.
func (c *MemoryCache) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}
