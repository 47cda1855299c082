//go:build !kafka

package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finpocket/finpocket/pkg/eventbus"
)

// KafkaBus is unavailable without the kafka build tag.
type KafkaBus struct{}

func NewWithKafka(logger *slog.Logger, brokers []string, topic string) (*KafkaBus, error) {
	return nil, fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaBus) Register(eventType string, handler eventbus.HandlerFunc) {}

func (b *KafkaBus) Emit(ctx context.Context, event eventbus.Event) error {
	return fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaBus) Close() error { return nil }

var _ eventbus.Bus = (*KafkaBus)(nil)
