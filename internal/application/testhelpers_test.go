package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
)

type stubProvider struct {
	calls  atomic.Int32
	result quote.DistanceResult
	err    error
	delay  time.Duration
	gate   chan struct{}
}

func (p *stubProvider) GetDistance(ctx context.Context, origin, destination string) (quote.DistanceResult, error) {
	p.calls.Add(1)
	if p.gate != nil {
		<-p.gate
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonTimeout, ctx.Err())
		}
	}
	return p.result, p.err
}

type recordedEvent struct {
	eventType string
	key       string
	data      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType: eventType, key: key, data: data})
}

func (p *recordingPublisher) ofType(eventType string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func intPtr(v int) *int { return &v }

// testTariff pins the coefficients used throughout the resolver tests.
func testTariff() quote.Tariff {
	t := quote.DefaultTariff()
	t.Base = 65
	t.PerKm = 2.2
	t.PerMin = 0
	t.PerPax = 5
	t.PerBag = 2
	t.AfterHoursRate = 0
	t.AirportFee = 0
	return t
}

func testFallback() quote.FallbackEstimator {
	airports, _ := quote.NewAirportMatcher(quote.DefaultAirportPattern)
	return quote.FallbackEstimator{AirportKm: 16, MinKm: 5, MaxKm: 45, Airports: airports}
}

func exampleRequest() QuoteRequest {
	return QuoteRequest{
		Pickup:  "Brisbane Airport",
		Dropoff: "South Bank",
		When:    "2025-10-15T10:30",
		Pax:     intPtr(2),
		Luggage: intPtr(1),
	}
}
