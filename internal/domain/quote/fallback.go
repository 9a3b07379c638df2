package quote

import "math"

// FallbackEstimator produces the rough distance used when the provider is
// unavailable. It is deterministic and never fails.
type FallbackEstimator struct {
	AirportKm float64
	MinKm     float64
	MaxKm     float64
	Airports  *AirportMatcher
}

// Estimate returns a constant for airport transfers and otherwise the
// difference in descriptor length clamped to [MinKm, MaxKm].
func (f FallbackEstimator) Estimate(pickup, dropoff string) DistanceResult {
	if f.Airports.MatchAny(pickup, dropoff) {
		return DistanceResult{DistanceKm: f.AirportKm, Source: SourceRough}
	}

	diff := math.Abs(float64(len([]rune(pickup)) - len([]rune(dropoff))))
	km := math.Max(f.MinKm, math.Min(f.MaxKm, diff))
	return DistanceResult{DistanceKm: km, Source: SourceRough}
}
