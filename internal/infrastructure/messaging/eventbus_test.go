package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:     false,
		EnableMetrics: true,
	})
}

func TestInMemoryEventBus_PublishReachesTypedHandler(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var got []shared.Event
	err := bus.Subscribe(shared.EventSessionRecorded, func(e shared.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewSessionRecordedEvent("session-1", "math", 7, 10, true)
	require.NoError(t, bus.Publish(event))

	require.Len(t, got, 1)
	assert.Equal(t, shared.EventSessionRecorded, got[0].EventType())
	assert.Equal(t, "math", got[0].Payload()["game"])
}

func TestInMemoryEventBus_GlobalHandlerSeesAllTypes(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var count int
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewSessionRecordedEvent("session-1", "science", 3, 5, false)))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent(1, 2, 150)))

	assert.Equal(t, 2, count)
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewLevelUpEvent(1, 2, 150))
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_MetricsTrackPublishes(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventLevelUp, func(e shared.Event) error {
		return nil
	}))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent(1, 2, 150)))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalPublished)
	assert.Equal(t, int64(1), snap.TotalHandlerExecs)
	assert.Equal(t, 1.0, snap.HandlerSuccessRate)
}
