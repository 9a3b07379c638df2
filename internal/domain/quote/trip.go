package quote

import (
	"strings"

	"github.com/limo-transfers/service-quote/internal/platform/apperror"
)

const (
	defaultPax     = 1
	defaultLuggage = 0
)

// Trip is a validated quote request. It has no identity and lives for one request.
type Trip struct {
	Pickup  string
	Dropoff string
	When    string
	Pax     int
	Luggage int
}

// NewTrip validates the raw request fields and applies defaults for the
// optional counts. when is only checked for presence; it is kept exactly as
// sent so it can be echoed back.
func NewTrip(pickup, dropoff, when string, pax, luggage *int) (Trip, error) {
	pickup = strings.TrimSpace(pickup)
	dropoff = strings.TrimSpace(dropoff)

	if missing := MissingFields(pickup, dropoff, when); len(missing) > 0 {
		return Trip{}, apperror.NewMissingFieldsError(missing...)
	}

	trip := Trip{
		Pickup:  pickup,
		Dropoff: dropoff,
		When:    when,
		Pax:     defaultPax,
		Luggage: defaultLuggage,
	}
	if pax != nil {
		if *pax < 0 {
			return Trip{}, apperror.NewValidationError("pax must not be negative")
		}
		trip.Pax = *pax
	}
	if luggage != nil {
		if *luggage < 0 {
			return Trip{}, apperror.NewValidationError("luggage must not be negative")
		}
		trip.Luggage = *luggage
	}

	return trip, nil
}

// MissingFields names the required trip fields that are blank.
func MissingFields(pickup, dropoff, when string) []string {
	var missing []string
	if strings.TrimSpace(pickup) == "" {
		missing = append(missing, "pickup")
	}
	if strings.TrimSpace(dropoff) == "" {
		missing = append(missing, "dropoff")
	}
	if strings.TrimSpace(when) == "" {
		missing = append(missing, "when")
	}
	return missing
}

// ExtraPassengers returns the number of passengers beyond the first.
func (t Trip) ExtraPassengers() int {
	if t.Pax <= 1 {
		return 0
	}
	return t.Pax - 1
}
