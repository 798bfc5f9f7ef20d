package kafka

import (
	"context"
	"encoding/json"

	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/segmentio/kafka-go"
)

const topic = "entry_recorded"

// Publisher publishes ledger events to Kafka. Writes are best-effort;
// the caller logs and drops failures.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher against the given brokers.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publish encodes the event as JSON and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Value: data})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
