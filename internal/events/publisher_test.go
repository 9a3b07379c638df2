package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/limo-transfers/service-quote/internal/platform/kafka"
)

type recordingWriter struct {
	topic  string
	key    string
	events []kafka.CloudEvent
	err    error
}

func (w *recordingWriter) PublishEvent(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	w.topic = topic
	w.key = key
	w.events = append(w.events, event)
	return w.err
}

func TestKafkaPublisherWrapsEvent(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisher(w, "quote.events", zap.NewNop())

	p.Publish(context.Background(), QuoteDistanceResolved, "a|b", DistanceResolvedEvent{
		Pickup:     "a",
		Dropoff:    "b",
		Source:     "rough",
		Reason:     "timeout",
		DistanceKm: 16,
		OccurredAt: time.Now().UTC(),
	})

	require.Len(t, w.events, 1)
	assert.Equal(t, "quote.events", w.topic)
	assert.Equal(t, "a|b", w.key)
	assert.Equal(t, QuoteDistanceResolved, w.events[0].Type)
	assert.Equal(t, "service-quote", w.events[0].Source)

	var got DistanceResolvedEvent
	require.NoError(t, w.events[0].ParseData(&got))
	assert.Equal(t, "timeout", got.Reason)
	assert.Equal(t, 16.0, got.DistanceKm)
}

func TestKafkaPublisherLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewKafkaPublisher(w, "quote.events", zap.New(core))

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), BookingRequested, "BK-1", BookingRequestedEvent{BookingID: "BK-1"})
	})
	assert.Equal(t, 1, logs.FilterMessage("failed to publish event").Len())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NotPanics(t, func() { p.Publish(context.Background(), BookingRequested, "k", nil) })
}
