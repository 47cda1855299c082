//go:build kafka

package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/finpocket/finpocket/pkg/eventbus"
)

// KafkaBus publishes every emitted event to a kafka topic in addition to
// dispatching it to locally registered handlers. Local dispatch keeps the
// websocket notifier working while external consumers read the topic.
type KafkaBus struct {
	local  *MemoryBus
	writer *kafka.Writer
	logger *slog.Logger
}

// NewWithKafka creates an event bus backed by the given brokers and topic.
func NewWithKafka(logger *slog.Logger, brokers []string, topic string) (*KafkaBus, error) {
	return &KafkaBus{
		local: NewWithMemory(logger),
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger.With("bus", "kafka"),
	}, nil
}

// Register registers a handler for a specific event type.
func (b *KafkaBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.local.Register(eventType, handler)
}

// Emit publishes the event to kafka and then dispatches it locally. A kafka
// write failure is logged, not returned: delivery is best-effort and local
// handlers must still run.
func (b *KafkaBus) Emit(ctx context.Context, event eventbus.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal event", "event_type", event.Type(), "error", err)
	} else if err := b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type()),
		Value: payload,
	}); err != nil {
		b.logger.Error("publish event", "event_type", event.Type(), "error", err)
	}
	return b.local.Emit(ctx, event)
}

// Close flushes and closes the underlying kafka writer.
func (b *KafkaBus) Close() error {
	return b.writer.Close()
}

var _ eventbus.Bus = (*KafkaBus)(nil)
