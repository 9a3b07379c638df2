package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTariff pins every coefficient so tests do not depend on defaults.
func fixedTariff() Tariff {
	t := DefaultTariff()
	t.Base = 65
	t.PerKm = 2.2
	t.PerMin = 0
	t.PerPax = 5
	t.PerBag = 2
	t.AfterHoursRate = 0
	t.AirportFee = 0
	return t
}

func mustTrip(t *testing.T, pickup, dropoff, when string, pax, luggage int) Trip {
	t.Helper()
	trip, err := NewTrip(pickup, dropoff, when, &pax, &luggage)
	require.NoError(t, err)
	return trip
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func TestCalculateFallbackExample(t *testing.T) {
	strategy := NewStandardPricingStrategy(fixedTariff())
	trip := mustTrip(t, "Brisbane Airport", "South Bank", "2025-10-15T10:30", 2, 1)

	b, err := strategy.Calculate(PricingParams{
		Trip:     trip,
		Distance: DistanceResult{DistanceKm: 16, Source: SourceRough},
	})
	require.NoError(t, err)

	assert.Equal(t, 107.2, b.Total)
	assert.Equal(t, 65.0, b.Base)
	assert.Equal(t, 35.2, b.DistanceCharge)
	assert.Equal(t, 5.0, b.PaxCharge)
	assert.Equal(t, 2.0, b.LuggageCharge)
	assert.Equal(t, 1, b.ExtraPax)
	assert.Equal(t, SourceRough, b.DistanceSource)
	assert.Zero(t, b.AirportSurcharge)
	assert.Zero(t, b.AfterHoursSurcharge)
}

func TestCalculateAirportSurcharge(t *testing.T) {
	tariff := fixedTariff()
	tariff.AirportFee = 10
	strategy := NewStandardPricingStrategy(tariff)
	trip := mustTrip(t, "Brisbane Airport", "South Bank", "2025-10-15T10:30", 2, 1)

	b, err := strategy.Calculate(PricingParams{Trip: trip, Distance: DistanceResult{DistanceKm: 16, Source: SourceRough}})
	require.NoError(t, err)

	assert.Equal(t, 10.0, b.AirportSurcharge)
	assert.Equal(t, 117.2, b.Total)
}

func TestCalculateAfterHours(t *testing.T) {
	tariff := fixedTariff()
	tariff.AfterHoursRate = 0.15
	strategy := NewStandardPricingStrategy(tariff)

	night := mustTrip(t, "Paddington", "New Farm", "2025-10-15T23:15", 1, 0)
	b, err := strategy.Calculate(PricingParams{Trip: night, Distance: DistanceResult{DistanceKm: 10, Source: SourceGoogle}})
	require.NoError(t, err)
	assert.Equal(t, 87.0, b.Subtotal)
	assert.InDelta(t, 13.05, b.AfterHoursSurcharge, 1e-9)
	assert.Equal(t, 0.15, b.AfterHoursRate)
	assert.Equal(t, 100.05, b.Total)

	day := mustTrip(t, "Paddington", "New Farm", "2025-10-15T12:00", 1, 0)
	b, err = strategy.Calculate(PricingParams{Trip: day, Distance: DistanceResult{DistanceKm: 10, Source: SourceGoogle}})
	require.NoError(t, err)
	assert.Zero(t, b.AfterHoursSurcharge)
	assert.Equal(t, 87.0, b.Total)

	unparsed := mustTrip(t, "Paddington", "New Farm", "late tonight", 1, 0)
	b, err = strategy.Calculate(PricingParams{Trip: unparsed, Distance: DistanceResult{DistanceKm: 10, Source: SourceGoogle}})
	require.NoError(t, err)
	assert.Zero(t, b.AfterHoursSurcharge)
}

func TestCalculatePerMinute(t *testing.T) {
	tariff := fixedTariff()
	tariff.PerMin = 0.8
	strategy := NewStandardPricingStrategy(tariff)
	trip := mustTrip(t, "Paddington", "New Farm", "2025-10-15T12:00", 1, 0)
	minutes := 20

	b, err := strategy.Calculate(PricingParams{Trip: trip, Distance: DistanceResult{DistanceKm: 10, DurationMin: &minutes, Source: SourceGoogle}})
	require.NoError(t, err)
	assert.Equal(t, 16.0, b.TimeCharge)
	assert.Equal(t, 103.0, b.Total)

	// No duration on rough estimates: time is not charged.
	b, err = strategy.Calculate(PricingParams{Trip: trip, Distance: DistanceResult{DistanceKm: 10, Source: SourceRough}})
	require.NoError(t, err)
	assert.Zero(t, b.TimeCharge)
	assert.Equal(t, 87.0, b.Total)
}

func TestCalculatePerExtraPassenger(t *testing.T) {
	strategy := NewStandardPricingStrategy(fixedTariff())
	dist := DistanceResult{DistanceKm: 0, Source: SourceRough}

	for pax, want := range map[int]float64{0: 65, 1: 65, 2: 70, 4: 80} {
		b, err := strategy.Calculate(PricingParams{Trip: mustTrip(t, "A", "B", "now", pax, 0), Distance: dist})
		require.NoError(t, err)
		assert.Equal(t, want, b.Total, "pax=%d", pax)
	}
}

func TestCalculateRoundingLine(t *testing.T) {
	tariff := fixedTariff()
	tariff.Base = 0.005
	tariff.PerKm = 0.005
	tariff.PerPax = 0
	tariff.PerBag = 0
	strategy := NewStandardPricingStrategy(tariff)

	b, err := strategy.Calculate(PricingParams{Trip: mustTrip(t, "A", "B", "now", 1, 0), Distance: DistanceResult{DistanceKm: 1}})
	require.NoError(t, err)

	assert.Equal(t, 0.01, b.Base)
	assert.Equal(t, 0.01, b.DistanceCharge)
	assert.Equal(t, 0.01, b.Total, "total is rounded once from unrounded parts")
	assert.Equal(t, -0.01, b.Rounding)
	assert.Equal(t, b.Total, Round2(sum(b.Components())))
}

func TestCalculateTotalMatchesComponents(t *testing.T) {
	tariff := DefaultTariff()
	tariff.PerMin = 0.8
	strategy := NewStandardPricingStrategy(tariff)
	whens := []string{"2025-10-15T10:30", "2025-10-15T23:45", "garbage"}

	for km := 0.0; km < 60; km += 0.37 {
		for pax := 0; pax <= 4; pax++ {
			for i, when := range whens {
				minutes := int(km * 1.7)
				trip := mustTrip(t, "Brisbane Airport", "Spring Hill", when, pax, i)
				b, err := strategy.Calculate(PricingParams{Trip: trip, Distance: DistanceResult{DistanceKm: km, DurationMin: &minutes, Source: SourceGoogle}})
				require.NoError(t, err)

				assert.Equal(t, b.Total, Round2(sum(b.Components())), "km=%v pax=%d when=%s", km, pax, when)
				assert.GreaterOrEqual(t, b.Total, 0.0)
			}
		}
	}
}

func TestCalculateRejectsNegativeDistance(t *testing.T) {
	strategy := NewStandardPricingStrategy(fixedTariff())
	_, err := strategy.Calculate(PricingParams{Trip: mustTrip(t, "A", "B", "now", 1, 0), Distance: DistanceResult{DistanceKm: -1}})
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 107.2, Round2(65+2.2*16+5+2))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, -1.01, Round2(-1.005))
	assert.Equal(t, 123.45, Round2(123.44999999999999))
	assert.Equal(t, 0.0, Round2(0.004999999), "below the half-cent rounds down")
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 12.3, Round2(12.3))
}
