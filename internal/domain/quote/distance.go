package quote

import (
	"context"
	"strings"
)

// Source tells where a distance figure came from.
type Source string

const (
	SourceGoogle Source = "google"
	SourceRough  Source = "rough"
	SourceCache  Source = "cache"
)

// DistanceResult is the travel distance and, when known, duration between two places.
type DistanceResult struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin *int    `json:"durationMin,omitempty"`
	Source      Source  `json:"source"`
}

// DistanceProvider resolves distance between two free-text locations.
type DistanceProvider interface {
	// GetDistance returns the distance for one origin/destination pair.
	GetDistance(ctx context.Context, origin, destination string) (DistanceResult, error)
}

// DistanceCache stores provider results by normalized route key. Implementations
// own expiry; an expired entry must be reported as a miss.
type DistanceCache interface {
	Get(ctx context.Context, key string) (DistanceResult, bool, error)
	Put(ctx context.Context, key string, result DistanceResult) error
}

// CacheKey builds the cache key for a route: lower-cased, whitespace collapsed.
func CacheKey(pickup, dropoff string) string {
	return normalize(pickup) + "|" + normalize(dropoff)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Minutes converts seconds to whole minutes, rounding to nearest.
func Minutes(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(seconds/60 + 0.5)
}
