package events

import (
	"sync"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// Ring keeps the most recent events in memory for the API's recent-events
// endpoint. It subscribes to the bus and runs until the bus closes.
type Ring struct {
	mu       sync.RWMutex
	buf      []*models.Event
	next     int
	full     bool
	capacity int
	done     chan struct{}
}

func NewRing(bus *EventBus, capacity int) *Ring {
	if capacity <= 0 {
		capacity = 100
	}

	r := &Ring{
		buf:      make([]*models.Event, capacity),
		capacity: capacity,
		done:     make(chan struct{}),
	}

	ch := bus.SubscribeAll()
	go func() {
		defer close(r.done)
		for event := range ch {
			r.add(event)
		}
	}()

	return r
}

func (r *Ring) add(event *models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = event
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
}

// Recent returns up to limit events, newest first.
func (r *Ring) Recent(limit int) []*models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = r.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]*models.Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + r.capacity) % r.capacity
		out = append(out, r.buf[idx])
	}
	return out
}

// Wait blocks until the subscription drains after the bus closes.
func (r *Ring) Wait() {
	<-r.done
}
