package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bibbank/mortgage-pricing/internal/domain/event"
	pkgkafka "github.com/bibbank/mortgage-pricing/pkg/kafka"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Topics routes events by family.
type Topics struct {
	RateTable string
	Quotes    string
}

// EventPublisher implements port.EventPublisher by writing events to Kafka.
type EventPublisher struct {
	producer MessageProducer
	topics   Topics
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher over producer.
func NewEventPublisher(producer MessageProducer, topics Topics, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topics:   topics,
		logger:   logger,
	}
}

// Publish serialises events and sends them, one batch per topic.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	batches := make(map[string][]pkgkafka.Message)
	var order []string

	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		topic := p.topicFor(evt.EventType())

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", topic,
			"payload_size", len(payload),
		)

		if _, ok := batches[topic]; !ok {
			order = append(order, topic)
		}
		batches[topic] = append(batches[topic], pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID(),
			},
		})
	}

	for _, topic := range order {
		if err := p.producer.Publish(ctx, topic, batches[topic]...); err != nil {
			return fmt.Errorf("failed to publish events to topic %s: %w", topic, err)
		}
	}
	return nil
}

func (p *EventPublisher) topicFor(eventType string) string {
	if strings.HasPrefix(eventType, "pricing.rate_table.") {
		return p.topics.RateTable
	}
	return p.topics.Quotes
}

// NopPublisher discards events. It stands in when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }
