package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/limo-transfers/service-quote/internal/domain/booking"
	"github.com/limo-transfers/service-quote/internal/domain/quote"
	"github.com/limo-transfers/service-quote/internal/events"
	"github.com/limo-transfers/service-quote/internal/platform/apperror"
)

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	QuoteRequest
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        string                `json:"id"`
	Status    string                `json:"status"`
	Pickup    string                `json:"pickup"`
	Dropoff   string                `json:"dropoff"`
	When      string                `json:"when"`
	Pax       int                   `json:"pax"`
	Luggage   int                   `json:"luggage"`
	Contact   bookingDomain.Contact `json:"contact"`
	Notes     string                `json:"notes,omitempty"`
	Quote     quote.Quote           `json:"quote"`
	CreatedAt time.Time             `json:"createdAt"`
}

// BookingService creates booking requests. Bookings are not stored: the
// response and the booking.requested event are the only record.
type BookingService struct {
	resolver  *QuoteResolver
	publisher events.Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(resolver *QuoteResolver, publisher events.Publisher, logger *zap.Logger) *BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BookingService{
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates the request, prices the trip and returns the new booking.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	contact := bookingDomain.Contact{Name: req.Name, Phone: req.Phone, Email: req.Email}

	// Report every missing field at once, trip and contact alike.
	missing := quote.MissingFields(req.Pickup, req.Dropoff, req.When)
	missing = append(missing, contact.MissingFields()...)
	if len(missing) > 0 {
		return nil, apperror.NewMissingFieldsError(missing...)
	}

	trip, err := quote.NewTrip(req.Pickup, req.Dropoff, req.When, req.Pax, req.Luggage)
	if err != nil {
		return nil, err
	}

	q, err := s.resolver.ResolveTrip(ctx, trip)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(trip, contact, req.Notes, *q)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID()),
		zap.Float64("total", q.Total),
		zap.String("distance_source", string(q.Breakdown.DistanceSource)),
	)
	s.publishBookingRequested(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

func (s *BookingService) publishBookingRequested(ctx context.Context, bk *bookingDomain.Booking) {
	trip := bk.Trip()
	q := bk.Quote()
	s.publisher.Publish(ctx, events.BookingRequested, bk.ID(), events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		Pickup:     trip.Pickup,
		Dropoff:    trip.Dropoff,
		When:       trip.When,
		Pax:        trip.Pax,
		Luggage:    trip.Luggage,
		Name:       bk.Contact().Name,
		Total:      q.Total,
		Currency:   q.Currency,
		OccurredAt: bk.CreatedAt(),
	})
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	trip := bk.Trip()
	return BookingDTO{
		ID:        bk.ID(),
		Status:    bk.Status(),
		Pickup:    trip.Pickup,
		Dropoff:   trip.Dropoff,
		When:      trip.When,
		Pax:       trip.Pax,
		Luggage:   trip.Luggage,
		Contact:   bk.Contact(),
		Notes:     bk.Notes(),
		Quote:     bk.Quote(),
		CreatedAt: bk.CreatedAt(),
	}
}
