package quote

// Quote is the priced response for a trip. Total always equals the sum of the
// breakdown components rounded to cents.
type Quote struct {
	Currency  string    `json:"currency"`
	Total     float64   `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	Pickup    string    `json:"pickup"`
	Dropoff   string    `json:"dropoff"`
	When      string    `json:"when"`
	Pax       int       `json:"pax"`
	Luggage   int       `json:"luggage"`
}

// NewQuote assembles a Quote from a trip and its breakdown.
func NewQuote(currency string, trip Trip, b Breakdown) Quote {
	return Quote{
		Currency:  currency,
		Total:     b.Total,
		Breakdown: b,
		Pickup:    trip.Pickup,
		Dropoff:   trip.Dropoff,
		When:      trip.When,
		Pax:       trip.Pax,
		Luggage:   trip.Luggage,
	}
}
