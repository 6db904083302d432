package event

import (
	"log/slog"
	"sync"
)

// Event is a single message published on the Bus.
type Event struct {
	Type Type
	// Source is the publisher, used by handlers to ignore their own events.
	Source  any
	Payload any
}

// Handler processes events of the types it declares.
// Handlers are compared by identity, so implementations should be pointers.
type Handler interface {
	// HandleEvent processes a single event.
	// Called synchronously from Publish, outside of the bus lock.
	HandleEvent(ev Event)

	// EventTypes returns the event types this handler processes.
	EventTypes() []Type
}

// HandlerFunc adapts a function into a Handler for a fixed set of types.
type HandlerFunc struct {
	Types []Type
	Fn    func(ev Event)
}

func (h *HandlerFunc) HandleEvent(ev Event) { h.Fn(ev) }
func (h *HandlerFunc) EventTypes() []Type   { return h.Types }

// Bus is a synchronous in-process publish/subscribe dispatcher.
type Bus interface {
	// Subscribe registers the handler for every type returned by EventTypes.
	// Subscribing the same handler twice is a no-op.
	//
	// Parameters:
	//   - h: the handler to register
	Subscribe(h Handler)

	// Unsubscribe removes the handler from every type it was registered for.
	//
	// Parameters:
	//   - h: the handler to remove
	Unsubscribe(h Handler)

	// Publish dispatches an event to the handlers of its type, in registration order.
	// Handlers may publish further events or (un)subscribe from within HandleEvent.
	//
	// Parameters:
	//   - t: the event type
	//   - source: the publisher
	//   - payload: the typed payload documented on t
	Publish(t Type, source any, payload any)

	// HandlerCount returns the number of handlers registered for t.
	HandlerCount(t Type) int
}

type bus struct {
	mu       *sync.RWMutex
	handlers map[Type][]Handler
	logger   *slog.Logger
}

var _ Bus = &bus{}

// NewBus creates an empty event bus.
//
// Parameters:
//   - logger: the logger used for dispatch tracing, nil for slog.Default()
//
// Returns:
//   - Bus: the new bus
func NewBus(logger *slog.Logger) Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &bus{
		mu:       &sync.RWMutex{},
		handlers: make(map[Type][]Handler),
		logger:   logger,
	}
}

func (b *bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range h.EventTypes() {
		if indexOf(b.handlers[t], h) >= 0 {
			continue
		}
		b.handlers[t] = append(b.handlers[t], h)
		b.logger.Debug("handler subscribed", "type", t)
	}
}

func (b *bus) Unsubscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t, hs := range b.handlers {
		i := indexOf(hs, h)
		if i < 0 {
			continue
		}
		// Copy so that in-flight Publish calls keep iterating their snapshot.
		next := make([]Handler, 0, len(hs)-1)
		next = append(next, hs[:i]...)
		next = append(next, hs[i+1:]...)
		b.handlers[t] = next
	}
}

func (b *bus) Publish(t Type, source any, payload any) {
	b.mu.RLock()
	hs := b.handlers[t]
	b.mu.RUnlock()

	if len(hs) == 0 {
		return
	}
	ev := Event{Type: t, Source: source, Payload: payload}
	for _, h := range hs {
		h.HandleEvent(ev)
	}
}

func (b *bus) HandlerCount(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}

func indexOf(hs []Handler, h Handler) int {
	for i, x := range hs {
		if x == h {
			return i
		}
	}
	return -1
}
