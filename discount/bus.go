/*
bus.go - Change notification bus

PURPOSE:
  Decouples store mutation from UI re-render. Consumers subscribe a
  zero-argument callback and get invoked synchronously after every
  mutation, once the store is fully consistent.

CONTRACT:
  - Notification is synchronous: all listeners run to completion before
    the mutating store call returns, so a read immediately after the call
    observes the new state.
  - Invocation order between listeners is unspecified.
  - A panicking listener must not prevent the remaining listeners from
    running. The panic is recovered and logged.

SEE ALSO:
  - store.go: Publishes after each mutation, outside its own lock
*/
package discount

import (
	"sync"

	"github.com/rs/zerolog"
)

// Bus is a minimal synchronous publish/subscribe registry.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
	log       zerolog.Logger
}

// NewBus creates an empty bus. Panics from listeners are logged to log.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		listeners: make(map[int]func()),
		log:       log,
	}
}

// Subscribe registers a listener and returns a function that removes it.
// Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(listener func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = listener

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Publish invokes every registered listener. Listeners run on the calling
// goroutine; callers must not hold locks the listeners may need.
func (b *Bus) Publish() {
	b.mu.Lock()
	snapshot := make([]func(), 0, len(b.listeners))
	for _, l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.mu.Unlock()

	for _, listener := range snapshot {
		b.invoke(listener)
	}
}

// invoke runs one listener with panic isolation.
func (b *Bus) invoke(listener func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("discount bus listener panicked")
		}
	}()
	listener()
}
