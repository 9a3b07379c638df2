package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/limo-transfers/service-quote/internal/platform/kafka"
)

const eventSource = "service-quote"

// Publisher emits domain events. Failures are logged and swallowed: events
// are for operators and never affect the response.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data any)
}

// eventWriter is the subset of kafka.Producer the publisher needs.
type eventWriter interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// KafkaPublisher publishes CloudEvents to a single topic.
type KafkaPublisher struct {
	writer eventWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a KafkaPublisher writing to topic.
func NewKafkaPublisher(writer eventWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish wraps data in a CloudEvent and writes it.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data any) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.writer.PublishEvent(ctx, p.topic, key, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, string, string, any) {}
