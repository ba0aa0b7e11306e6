package events

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 100

// subscription holds the type filter of one subscriber; nil accepts everything
type subscription struct {
	types map[EventType]struct{}
}

func (s subscription) accepts(t EventType) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Bus is a simple pub/sub event bus
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan Event]subscription
	bufferSize  int
	dropped     atomic.Uint64
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return NewBusWithBuffer(defaultBufferSize)
}

// NewBusWithBuffer creates a bus whose subscriber channels hold size events
func NewBusWithBuffer(size int) *Bus {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Bus{
		subscribers: make(map[chan Event]subscription),
		bufferSize:  size,
	}
}

// Subscribe returns a channel that receives events of the given types.
// No types means every event.
func (b *Bus) Subscribe(types ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sub subscription
	if len(types) > 0 {
		sub.types = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers[ch] = sub
	return ch
}

// Unsubscribe removes a subscriber channel and closes it
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		if sub == ch {
			delete(b.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Publish sends an event to all matching subscribers.
// Non-blocking: if a subscriber's buffer is full the event is dropped for it
// and counted in Dropped.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, sub := range b.subscribers {
		if !sub.accepts(event.Type) {
			continue
		}
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped because of full buffers
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
}
