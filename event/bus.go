// Package event provides a small typed publish/subscribe bus with
// deterministic listener ordering: listeners are invoked in subscription
// order, synchronously, on the publishing goroutine.
package event

import "sync"

// Unsubscribe removes a listener from its bus. Calling it more than once
// is harmless.
type Unsubscribe func()

type subscription[T any] struct {
	seq      uint64
	listener func(T)
}

// Bus dispatches values of one event type to its listeners.
type Bus[T any] struct {
	mu   sync.Mutex
	next uint64
	subs []subscription[T]
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a listener and returns its removal func. Listeners
// registered earlier are always notified earlier.
func (b *Bus[T]) Subscribe(listener func(T)) Unsubscribe {
	if listener == nil {
		return func() {}
	}

	b.mu.Lock()
	seq := b.next
	b.next++
	b.subs = append(b.subs, subscription[T]{seq: seq, listener: listener})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.seq == seq {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the value to every listener in subscription order.
// Listeners added during delivery see only later events; listeners removed
// during delivery of this event are still invoked for it.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	snapshot := make([]subscription[T], len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.listener(v)
	}
}

// Len returns the current number of listeners.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
