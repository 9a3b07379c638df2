package quote

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PricingStrategy turns a trip and its distance into a priced breakdown.
type PricingStrategy interface {
	Calculate(params PricingParams) (Breakdown, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	Trip     Trip
	Distance DistanceResult
}

// Tariff holds the pricing coefficients. All currency values are in whole
// currency units, not cents.
type Tariff struct {
	Currency       string
	Base           float64
	PerKm          float64
	PerMin         float64
	PerPax         float64
	PerBag         float64
	AfterHoursRate float64
	AfterHours     Window
	AirportFee     float64
	Location       *time.Location
	Airports       *AirportMatcher
}

// DefaultTariff returns the standard coefficients for the Brisbane fleet.
func DefaultTariff() Tariff {
	airports, _ := NewAirportMatcher(DefaultAirportPattern)
	return Tariff{
		Currency:       "AUD",
		Base:           65,
		PerKm:          2.2,
		PerMin:         0,
		PerPax:         5,
		PerBag:         2,
		AfterHoursRate: 0.15,
		AfterHours:     Window{Start: 22 * 60, End: 5 * 60},
		AirportFee:     10,
		Location:       time.UTC,
		Airports:       airports,
	}
}

// Breakdown is the itemized price. Charge fields are rounded to cents for
// display; Rounding absorbs the difference between their sum and the total,
// which is rounded once from unrounded intermediates.
type Breakdown struct {
	Base           float64 `json:"base"`
	PerKm          float64 `json:"perKm"`
	PerMin         float64 `json:"perMin"`
	PerPax         float64 `json:"perPax"`
	PerBag         float64 `json:"perBag"`
	DistanceKm     float64 `json:"distanceKm"`
	DurationMin    *int    `json:"durationMin"`
	DistanceSource Source  `json:"distanceSource"`
	ExtraPax       int     `json:"extraPax"`
	Luggage        int     `json:"luggage"`

	DistanceCharge      float64 `json:"distanceCharge"`
	TimeCharge          float64 `json:"timeCharge"`
	PaxCharge           float64 `json:"paxCharge"`
	LuggageCharge       float64 `json:"luggageCharge"`
	Subtotal            float64 `json:"subtotal"`
	AfterHoursRate      float64 `json:"afterHoursRate,omitempty"`
	AfterHoursSurcharge float64 `json:"afterHoursSurcharge"`
	AirportSurcharge    float64 `json:"airportSurcharge"`
	Rounding            float64 `json:"rounding"`
	Total               float64 `json:"-"`
}

// Components returns every charge line that makes up the total.
func (b Breakdown) Components() []float64 {
	return []float64{
		b.Base,
		b.DistanceCharge,
		b.TimeCharge,
		b.PaxCharge,
		b.LuggageCharge,
		b.AfterHoursSurcharge,
		b.AirportSurcharge,
		b.Rounding,
	}
}

// StandardPricingStrategy implements the linear limousine tariff.
type StandardPricingStrategy struct {
	tariff Tariff
}

// NewStandardPricingStrategy creates a StandardPricingStrategy for tariff.
func NewStandardPricingStrategy(tariff Tariff) *StandardPricingStrategy {
	return &StandardPricingStrategy{tariff: tariff}
}

// Calculate computes the breakdown.
//
// Pricing formula:
//   - subtotal = base + perKm*km + perMin*min + perPax*(pax-1) + perBag*bags
//   - after-hours: subtotal * rate when the trip time is inside the window
//   - airport: flat fee when either end matches the airport pattern
//   - total: subtotal + surcharges, rounded once to cents
func (s *StandardPricingStrategy) Calculate(params PricingParams) (Breakdown, error) {
	t := s.tariff
	trip := params.Trip
	dist := params.Distance

	if dist.DistanceKm < 0 || math.IsNaN(dist.DistanceKm) || math.IsInf(dist.DistanceKm, 0) {
		return Breakdown{}, fmt.Errorf("invalid distance: %v", dist.DistanceKm)
	}
	if trip.Pax < 0 || trip.Luggage < 0 {
		return Breakdown{}, fmt.Errorf("negative passenger or luggage count")
	}

	extraPax := trip.ExtraPassengers()

	distanceCharge := t.PerKm * dist.DistanceKm
	var timeCharge float64
	if dist.DurationMin != nil {
		timeCharge = t.PerMin * float64(*dist.DurationMin)
	}
	paxCharge := t.PerPax * float64(extraPax)
	luggageCharge := t.PerBag * float64(trip.Luggage)

	subtotal := t.Base + distanceCharge + timeCharge + paxCharge + luggageCharge

	var afterHours, afterHoursRate float64
	if when, ok := ParseWhen(trip.When, t.Location); ok && t.AfterHours.Contains(when) {
		afterHoursRate = t.AfterHoursRate
		afterHours = subtotal * t.AfterHoursRate
	}

	var airport float64
	if t.Airports.MatchAny(trip.Pickup, trip.Dropoff) {
		airport = t.AirportFee
	}

	total := Round2(subtotal + afterHours + airport)

	b := Breakdown{
		Base:                Round2(t.Base),
		PerKm:               t.PerKm,
		PerMin:              t.PerMin,
		PerPax:              t.PerPax,
		PerBag:              t.PerBag,
		DistanceKm:          Round2(dist.DistanceKm),
		DurationMin:         dist.DurationMin,
		DistanceSource:      dist.Source,
		ExtraPax:            extraPax,
		Luggage:             trip.Luggage,
		DistanceCharge:      Round2(distanceCharge),
		TimeCharge:          Round2(timeCharge),
		PaxCharge:           Round2(paxCharge),
		LuggageCharge:       Round2(luggageCharge),
		Subtotal:            Round2(subtotal),
		AfterHoursRate:      afterHoursRate,
		AfterHoursSurcharge: Round2(afterHours),
		AirportSurcharge:    Round2(airport),
		Total:               total,
	}

	var shown float64
	for _, c := range b.Components() {
		shown += c
	}
	b.Rounding = Round2(total - shown)

	return b, nil
}

// Round2 rounds half-up to cents on the shortest decimal form of v, so 1.005
// becomes 1.01 while 0.004999999 stays 0.
func Round2(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	digits := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	if len(frac) <= 2 {
		return v
	}

	cents, err := strconv.ParseFloat(whole+"."+frac[:2], 64)
	if err != nil {
		return v
	}
	if frac[2] >= '5' {
		cents += 0.01
	}
	return math.Copysign(math.Round(cents*100)/100, v)
}
