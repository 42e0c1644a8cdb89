package notify

import (
	"testing"
	"time"

	"takeaway-be/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	sub := bus.Subscribe(4)
	defer sub.Close()

	bus.Publish(EventOrderCreated, map[string]uint{"id": 1})

	select {
	case ev := <-sub.C:
		assert.Equal(t, EventOrderCreated, ev.Name)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event, got none")
	}
}

func TestBus_FIFOPerSubscriber(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	sub := bus.Subscribe(8)
	defer sub.Close()

	bus.Publish(EventOrderCreated, 1)
	bus.Publish(EventOrderUpdated, 2)
	bus.Publish(EventOrderCanceled, 3)

	assert.Equal(t, EventOrderCreated, (<-sub.C).Name)
	assert.Equal(t, EventOrderUpdated, (<-sub.C).Name)
	assert.Equal(t, EventOrderCanceled, (<-sub.C).Name)
}

func TestBus_SlowSubscriberDrops(t *testing.T) {
	reg := metrics.NewRegistry()
	bus := NewBus(reg)
	defer bus.Close()

	sub := bus.Subscribe(1)
	defer sub.Close()

	// Second publish overflows the buffer and must not block.
	done := make(chan struct{})
	go func() {
		bus.Publish(EventMenuChanged, "a")
		bus.Publish(EventMenuChanged, "b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}

	assert.Equal(t, uint64(2), reg.EventsPublished.Load())
	assert.Equal(t, uint64(1), reg.EventsDropped.Load())

	// First event still delivered.
	ev := <-sub.C
	assert.Equal(t, "a", ev.Payload)
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	sub1 := bus.Subscribe(4)
	sub2 := bus.Subscribe(4)
	defer sub1.Close()
	defer sub2.Close()

	bus.Publish(EventOrderStatusChanged, nil)

	assert.Equal(t, EventOrderStatusChanged, (<-sub1.C).Name)
	assert.Equal(t, EventOrderStatusChanged, (<-sub2.C).Name)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	sub := bus.Subscribe(4)
	sub.Close()

	// Channel is closed after unsubscribe.
	_, open := <-sub.C
	assert.False(t, open)

	// Publishing afterwards must not panic.
	bus.Publish(EventMenuChanged, nil)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(nil)
	sub := bus.Subscribe(4)

	bus.Close()

	_, open := <-sub.C
	assert.False(t, open)

	// Publish and double-close are no-ops after Close.
	bus.Publish(EventMenuChanged, nil)
	bus.Close()

	closedSub := bus.Subscribe(4)
	_, open = <-closedSub.C
	require.False(t, open)
}
