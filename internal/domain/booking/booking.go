package booking

import (
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
	"github.com/limo-transfers/service-quote/internal/platform/apperror"
)

const (
	bookingIDPrefix    = "BK-"
	bookingIDSuffixLen = 8
)

// StatusRequested is the only status a booking can have: nothing is persisted,
// so a booking never progresses past the request that created it.
const StatusRequested = "requested"

// Contact is the passenger contact detail attached to a booking.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// MissingFields names the required contact fields that are blank.
func (c Contact) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Booking is a requested limousine transfer with the quote it was made against.
type Booking struct {
	id        string
	status    string
	trip      quote.Trip
	contact   Contact
	notes     string
	quote     quote.Quote
	createdAt time.Time
}

// GenerateBookingID returns "BK-" followed by a random base36 suffix.
// Uniqueness is not guaranteed.
func GenerateBookingID() string {
	id := uuid.New()
	suffix := new(big.Int).SetBytes(id[:8]).Text(36)
	if len(suffix) < bookingIDSuffixLen {
		suffix = strings.Repeat("0", bookingIDSuffixLen-len(suffix)) + suffix
	}
	return bookingIDPrefix + strings.ToUpper(suffix[len(suffix)-bookingIDSuffixLen:])
}

// NewBooking creates a Booking with status=requested. The trip must already
// be validated; contact name and phone are required here.
func NewBooking(trip quote.Trip, contact Contact, notes string, q quote.Quote) (*Booking, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Email = strings.TrimSpace(contact.Email)

	if missing := contact.MissingFields(); len(missing) > 0 {
		return nil, apperror.NewMissingFieldsError(missing...)
	}

	return &Booking{
		id:        GenerateBookingID(),
		status:    StatusRequested,
		trip:      trip,
		contact:   contact,
		notes:     strings.TrimSpace(notes),
		quote:     q,
		createdAt: time.Now().UTC(),
	}, nil
}

// ID returns the generated booking identifier.
func (b *Booking) ID() string { return b.id }

// Status returns the booking status.
func (b *Booking) Status() string { return b.status }

// Trip returns the trip being booked.
func (b *Booking) Trip() quote.Trip { return b.trip }

// Contact returns the passenger contact.
func (b *Booking) Contact() Contact { return b.contact }

// Notes returns free-form notes from the passenger.
func (b *Booking) Notes() string { return b.notes }

// Quote returns the quote the booking was made against.
func (b *Booking) Quote() quote.Quote { return b.quote }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
