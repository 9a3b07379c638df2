package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
	"github.com/limo-transfers/service-quote/internal/events"
	"github.com/limo-transfers/service-quote/internal/platform/apperror"
)

// DefaultProviderTimeout bounds a single distance-matrix call.
const DefaultProviderTimeout = 6 * time.Second

// QuoteRequest holds the raw trip fields from a quote or booking request.
type QuoteRequest struct {
	Pickup  string `json:"pickup" binding:"required"`
	Dropoff string `json:"dropoff" binding:"required"`
	When    string `json:"when" binding:"required"`
	Pax     *int   `json:"pax" binding:"omitempty,min=0"`
	Luggage *int   `json:"luggage" binding:"omitempty,min=0"`
}

// QuoteResolver prices trips. It resolves distance through the cache, then the
// provider, then the rough fallback, and never fails because of the provider.
type QuoteResolver struct {
	provider  quote.DistanceProvider
	cache     quote.DistanceCache
	pricing   quote.PricingStrategy
	fallback  quote.FallbackEstimator
	publisher events.Publisher
	logger    *zap.Logger
	timeout   time.Duration
	currency  string
	now       func() time.Time

	inflight singleflight.Group
}

// NewQuoteResolver creates a QuoteResolver. provider and cache may be nil:
// without a provider every quote uses the fallback, without a cache nothing
// is reused between requests.
func NewQuoteResolver(
	provider quote.DistanceProvider,
	cache quote.DistanceCache,
	pricing quote.PricingStrategy,
	fallback quote.FallbackEstimator,
	publisher events.Publisher,
	logger *zap.Logger,
	timeout time.Duration,
	currency string,
) *QuoteResolver {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &QuoteResolver{
		provider:  provider,
		cache:     cache,
		pricing:   pricing,
		fallback:  fallback,
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
		currency:  currency,
		now:       time.Now,
	}
}

// Resolve validates the request and produces a fully priced quote.
func (r *QuoteResolver) Resolve(ctx context.Context, req QuoteRequest) (*quote.Quote, error) {
	trip, err := quote.NewTrip(req.Pickup, req.Dropoff, req.When, req.Pax, req.Luggage)
	if err != nil {
		return nil, err
	}
	return r.ResolveTrip(ctx, trip)
}

// ResolveTrip prices an already validated trip.
func (r *QuoteResolver) ResolveTrip(ctx context.Context, trip quote.Trip) (*quote.Quote, error) {
	dist := r.resolveDistance(ctx, trip)

	breakdown, err := r.pricing.Calculate(quote.PricingParams{Trip: trip, Distance: dist})
	if err != nil {
		return nil, apperror.NewInternalError(fmt.Errorf("calculate price: %w", err))
	}

	q := quote.NewQuote(r.currency, trip, breakdown)
	return &q, nil
}

// Capabilities reports which optional collaborators are wired.
func (r *QuoteResolver) Capabilities() (maps bool, cache bool) {
	return r.provider != nil, r.cache != nil
}

func (r *QuoteResolver) resolveDistance(ctx context.Context, trip quote.Trip) quote.DistanceResult {
	key := quote.CacheKey(trip.Pickup, trip.Dropoff)

	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("distance cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			cached.Source = quote.SourceCache
			r.record(ctx, trip, cached, quote.ReasonNone)
			return cached
		}
	}

	if r.provider == nil {
		return r.useFallback(ctx, trip, quote.ReasonNoCredential, nil)
	}

	// Concurrent requests for the same route share one provider call. The call
	// is detached from any single caller's cancellation and bounded on its own.
	v, err, _ := r.inflight.Do(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.provider.GetDistance(callCtx, trip.Pickup, trip.Dropoff)
	})
	if err != nil {
		return r.useFallback(ctx, trip, quote.ReasonOf(err), err)
	}

	dist := v.(quote.DistanceResult)
	dist.Source = quote.SourceGoogle
	if dist.DistanceKm < 0 {
		return r.useFallback(ctx, trip, quote.ReasonMalformedPayload, fmt.Errorf("negative distance %v", dist.DistanceKm))
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, key, dist); err != nil {
			r.logger.Warn("distance cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	r.record(ctx, trip, dist, quote.ReasonNone)
	return dist
}

func (r *QuoteResolver) useFallback(ctx context.Context, trip quote.Trip, reason quote.FallbackReason, cause error) quote.DistanceResult {
	dist := r.fallback.Estimate(trip.Pickup, trip.Dropoff)

	fields := []zap.Field{
		zap.String("pickup", trip.Pickup),
		zap.String("dropoff", trip.Dropoff),
		zap.String("reason", string(reason)),
		zap.Float64("distance_km", dist.DistanceKm),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	r.logger.Warn("distance provider unavailable, using rough estimate", fields...)

	r.record(ctx, trip, dist, reason)
	return dist
}

func (r *QuoteResolver) record(ctx context.Context, trip quote.Trip, dist quote.DistanceResult, reason quote.FallbackReason) {
	r.logger.Info("distance resolved",
		zap.String("source", string(dist.Source)),
		zap.String("reason", string(reason)),
		zap.Float64("distance_km", dist.DistanceKm),
	)

	r.publisher.Publish(ctx, events.QuoteDistanceResolved, quote.CacheKey(trip.Pickup, trip.Dropoff), events.DistanceResolvedEvent{
		Pickup:     trip.Pickup,
		Dropoff:    trip.Dropoff,
		Source:     string(dist.Source),
		Reason:     string(reason),
		DistanceKm: dist.DistanceKm,
		OccurredAt: r.now().UTC(),
	})
}
