package events

import (
	"context"
	"encoding/json"
	"fmt"

	"joulaa/internal/config"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const eventTypeOrderCreated = "order.created"

// kafkaPublisher writes order events to a Kafka topic, keyed by order id so
// events for one order stay ordered within a partition.
type kafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaPublisher creates a Kafka-backed event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger zerolog.Logger) Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return &kafkaPublisher{
		writer: w,
		logger: logger.With().Str("publisher", "kafka").Str("topic", cfg.Topic).Logger(),
	}
}

func (p *kafkaPublisher) PublishOrderCreated(ctx context.Context, event *OrderCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeOrderCreated)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish order event: %w", err)
	}

	p.logger.Debug().Str("order_id", event.OrderID.String()).Msg("order event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
