//go:build !kafka

package initializer

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/finpocket/finpocket/infra/eventbus"
	"github.com/finpocket/finpocket/pkg/config"
)

func TestInitEventBusDefaultsToMemory(t *testing.T) {
	bus, err := initEventBus(config.EventBus{Driver: ""}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &infraeventbus.MemoryBus{}, bus)
}

func TestInitEventBusMemoryDriver(t *testing.T) {
	bus, err := initEventBus(config.EventBus{Driver: "memory"}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &infraeventbus.MemoryBus{}, bus)
}

func TestInitEventBusKafkaNeedsBuildTag(t *testing.T) {
	// Built without -tags kafka the driver is a stub that refuses to start.
	_, err := initEventBus(config.EventBus{
		Driver: "kafka", Brokers: "localhost:9092", Topic: "events",
	}, slog.Default())
	require.Error(t, err)
}
