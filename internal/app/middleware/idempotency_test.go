package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rently/internal/app/commands"
	"rently/internal/app/middleware"
	"rently/internal/infra/storage/memory"
)

type countedCommand struct {
	key string
}

func (c countedCommand) Key() string            { return "test.counted" }
func (c countedCommand) IdempotencyKey() string { return c.key }
func (c countedCommand) ResultPrototype() any   { return &countedResult{} }

type countedResult struct {
	Value int `json:"value"`
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, countedCommand{}.Key(), commands.HandlerFunc[countedCommand, *countedResult](
		func(ctx context.Context, cmd countedCommand) (*countedResult, error) {
			calls++
			return &countedResult{Value: calls}, nil
		},
	))
	wrapped := middleware.ChainCommands(bus, middleware.Idempotency(memory.NewIdempotencyStore(0), nil))

	first, err := commands.Dispatch[countedCommand, *countedResult](context.Background(), wrapped, countedCommand{key: "idem-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Value)

	second, err := commands.Dispatch[countedCommand, *countedResult](context.Background(), wrapped, countedCommand{key: "idem-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Value, "replay must not re-run the handler")
	assert.Equal(t, 1, calls)

	third, err := commands.Dispatch[countedCommand, *countedResult](context.Background(), wrapped, countedCommand{key: "idem-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Value)
}

func TestIdempotencyReplaysErrors(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	boom := errors.New("boom")
	commands.RegisterHandler(bus, countedCommand{}.Key(), commands.HandlerFunc[countedCommand, *countedResult](
		func(ctx context.Context, cmd countedCommand) (*countedResult, error) {
			calls++
			return nil, boom
		},
	))
	wrapped := middleware.ChainCommands(bus, middleware.Idempotency(memory.NewIdempotencyStore(0), nil))

	_, err := commands.Dispatch[countedCommand, *countedResult](context.Background(), wrapped, countedCommand{key: "idem-1"})
	require.Error(t, err)

	_, err = commands.Dispatch[countedCommand, *countedResult](context.Background(), wrapped, countedCommand{key: "idem-1"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIdempotencySkipsCommandsWithoutKey(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, countedCommand{}.Key(), commands.HandlerFunc[countedCommand, *countedResult](
		func(ctx context.Context, cmd countedCommand) (*countedResult, error) {
			calls++
			return &countedResult{Value: calls}, nil
		},
	))
	wrapped := middleware.ChainCommands(bus, middleware.Idempotency(memory.NewIdempotencyStore(0), nil))

	for i := 0; i < 3; i++ {
		_, err := commands.Dispatch[countedCommand, *countedResult](context.Background(), wrapped, countedCommand{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}
