package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkPayload struct {
	X, Z  int32
	Stage string
}

func TestNewEnvelope(t *testing.T) {
	ev, err := NewEnvelope("world", "world.chunk_stage", chunkPayload{X: 1, Z: -2, Stage: "meshed"})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "world.chunk_stage", ev.EventType)
	assert.Equal(t, PriorityNormal, ev.Priority)

	var got chunkPayload
	require.NoError(t, ev.Decode(&got))
	assert.Equal(t, chunkPayload{X: 1, Z: -2, Stage: "meshed"}, got)

	other, err := NewEnvelope("world", "world.chunk_stage", nil)
	require.NoError(t, err)
	assert.NotEqual(t, ev.ID, other.ID)
}

func TestMemoryBusFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var mu sync.Mutex
	var received []string
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{"world.block_edit"}}, func(ctx context.Context, ev *Envelope) {
		mu.Lock()
		received = append(received, ev.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)

	for _, typ := range []string{"world.chunk_stage", "world.block_edit", "world.block_edit"} {
		ev, err := NewEnvelope("test", typ, nil)
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, uint64(3), bus.Metrics().Published)
}

func TestMemoryBusClosed(t *testing.T) {
	bus := NewMemoryBus(1)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	ev, err := NewEnvelope("test", "x", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, bus.Publish(context.Background(), ev), ErrBusClosed)
}

func TestMetricsExporterCollect(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()

	reg := prometheus.NewRegistry()
	exporter := NewMetricsExporter(bus, reg)

	ev, err := NewEnvelope("test", "x", nil)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))

	exporter.Collect()
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.published))

	// Повторный сбор без новых событий не увеличивает счётчик
	exporter.Collect()
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.published))
}
