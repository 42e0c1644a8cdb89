package notify

import (
	"sync"
	"time"

	"takeaway-be/internal/logger"
	"takeaway-be/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Domain event names delivered to connected clients.
const (
	EventMenuChanged        = "menu.changed"
	EventOrderCreated       = "order.created"
	EventOrderCanceled      = "order.canceled"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusChanged = "order.statusChanged"
)

type Event struct {
	ID      string      `json:"id"`
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Publisher is the mutation-side view of the bus. Services depend on
// this interface so tests can substitute a recorder.
type Publisher interface {
	Publish(name string, payload interface{})
}

// Bus fans events out to subscribers. Delivery is best-effort: a
// subscriber whose buffer is full misses the event, and a publish never
// blocks the mutating request.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	closed bool
	reg    *metrics.Registry
}

func NewBus(reg *metrics.Registry) *Bus {
	return &Bus{
		subs: make(map[uint64]chan Event),
		reg:  reg,
	}
}

// Subscription is a live event feed. Close it when the consumer goes away.
type Subscription struct {
	C  <-chan Event
	id uint64
	b  *Bus
}

func (s *Subscription) Close() {
	s.b.unsubscribe(s.id)
}

func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return &Subscription{C: ch, b: b}
	}

	b.nextID++
	id := b.nextID
	b.subs[id] = ch

	return &Subscription{C: ch, id: id, b: b}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers the event to every current subscriber. Fire-and-forget:
// nothing is persisted and a disconnected client simply misses events.
func (b *Bus) Publish(name string, payload interface{}) {
	ev := Event{
		ID:      uuid.New().String(),
		Name:    name,
		Payload: payload,
		At:      time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	if b.reg != nil {
		b.reg.EventsPublished.Inc()
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up. Drop rather than block the
			// mutating request.
			if b.reg != nil {
				b.reg.EventsDropped.Inc()
			}
			logger.L().Warn("event dropped for slow subscriber",
				zap.String("event", name),
			)
		}
	}
}

// Close tears down all subscriptions. Publish becomes a no-op afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
