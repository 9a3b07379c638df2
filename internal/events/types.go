package events

import "time"

// Event types published on the quote topic.
const (
	QuoteDistanceResolved = "quote.distance_resolved"
	BookingRequested      = "booking.requested"
)

// DistanceResolvedEvent records which distance source priced a quote and,
// for rough estimates, why the provider was not used.
type DistanceResolvedEvent struct {
	Pickup     string    `json:"pickup"`
	Dropoff    string    `json:"dropoff"`
	Source     string    `json:"source"`
	Reason     string    `json:"reason,omitempty"`
	DistanceKm float64   `json:"distance_km"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingRequestedEvent is emitted for every accepted booking request.
type BookingRequestedEvent struct {
	BookingID  string    `json:"booking_id"`
	Pickup     string    `json:"pickup"`
	Dropoff    string    `json:"dropoff"`
	When       string    `json:"when"`
	Pax        int       `json:"pax"`
	Luggage    int       `json:"luggage"`
	Name       string    `json:"name"`
	Total      float64   `json:"total"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}
