package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/finpocket/finpocket/infra/eventbus"
	"github.com/finpocket/finpocket/pkg/eventbus"
)

type testEvent struct{ name string }

func (e testEvent) Type() string { return e.name }

func TestHandlersRunInRegistrationOrder(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		bus.Register("thing.happened", func(context.Context, eventbus.Event) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, bus.Emit(context.Background(), testEvent{name: "thing.happened"}))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestHandlerErrorDoesNotStopDispatch(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())

	var reached bool
	bus.Register("thing.happened", func(context.Context, eventbus.Event) error {
		return errors.New("boom")
	})
	bus.Register("thing.happened", func(context.Context, eventbus.Event) error {
		reached = true
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), testEvent{name: "thing.happened"}))
	assert.True(t, reached)
}

func TestEmitIgnoresUnregisteredTypes(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())

	require.NoError(t, bus.Emit(context.Background(), testEvent{name: "nobody.cares"}))
	assert.Len(t, bus.Published(), 1)
}
