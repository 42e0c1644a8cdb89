package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Registry aggregates process-level counters served on the health endpoint.
type Registry struct {
	OrdersCreated   Counter
	OrdersCanceled  Counter
	MenuMutations   Counter
	EventsPublished Counter
	EventsDropped   Counter

	startTime time.Time
}

func NewRegistry() *Registry {
	return &Registry{startTime: time.Now()}
}

func (r *Registry) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"orders_created":   r.OrdersCreated.Load(),
		"orders_canceled":  r.OrdersCanceled.Load(),
		"menu_mutations":   r.MenuMutations.Load(),
		"events_published": r.EventsPublished.Load(),
		"events_dropped":   r.EventsDropped.Load(),
		"uptime_seconds":   time.Since(r.startTime).Seconds(),
	}
}
