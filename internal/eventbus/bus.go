package eventbus

import (
	"reflect"
	"sync"
)

// Handler receives the payload of a published event.
type Handler func(payload any)

// Logger is the optional logging interface used by the bus.
type Logger interface {
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// subscription is one registered handler. key is the handler's function
// pointer, giving set semantics: the same named function or stored closure
// registered twice occupies one slot.
type subscription struct {
	key  uintptr
	fn   Handler
	once bool
}

// Bus is a subscriber-managed event registry. The zero value is not usable;
// call New. All methods are safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]subscription
	logger Logger
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger used to report recovered handler panics.
func (b *Bus) SetLogger(logger Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if logger != nil {
		b.logger = logger
	}
}

func handlerKey(fn Handler) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// Subscribe adds handler to the set for event and returns a closure that
// removes exactly that handler. Subscribing an already-registered handler is
// a no-op apart from the returned closure.
func (b *Bus) Subscribe(event string, handler Handler) func() {
	return b.add(event, handler, false)
}

// SubscribeOnce is Subscribe, but the handler self-removes after its first
// delivery. Removal happens before invocation, so a handler that panics does
// not leave itself subscribed.
func (b *Bus) SubscribeOnce(event string, handler Handler) func() {
	return b.add(event, handler, true)
}

func (b *Bus) add(event string, handler Handler, once bool) func() {
	if handler == nil {
		return func() {}
	}
	key := handlerKey(handler)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs[event] {
		if sub.key == key {
			// Already registered: must not double-invoke.
			return func() { b.Unsubscribe(event, handler) }
		}
	}
	b.subs[event] = append(b.subs[event], subscription{key: key, fn: handler, once: once})
	return func() { b.Unsubscribe(event, handler) }
}

// Unsubscribe removes one handler from an event. A nil handler removes all
// handlers for the event. Removing the last handler deletes the event entry.
func (b *Bus) Unsubscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handler == nil {
		delete(b.subs, event)
		return
	}
	b.removeLocked(event, handlerKey(handler))
}

func (b *Bus) removeLocked(event string, key uintptr) {
	subs := b.subs[event]
	for i, sub := range subs {
		if sub.key == key {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(b.subs, event)
		return
	}
	b.subs[event] = subs
}

// Publish delivers payload to every handler currently subscribed to event,
// in subscription order. Delivery iterates a snapshot taken under the lock;
// once-handlers are removed from the registry before they are invoked.
func (b *Bus) Publish(event string, payload any) {
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs[event]))
	copy(snapshot, b.subs[event])
	for _, sub := range snapshot {
		if sub.once {
			b.removeLocked(event, sub.key)
		}
	}
	b.mu.Unlock()

	for _, sub := range snapshot {
		b.deliver(event, sub.fn, payload)
	}
}

// deliver invokes one handler, isolating panics so no handler can prevent
// delivery to the rest.
func (b *Bus) deliver(event string, fn Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			logger := b.logger
			b.mu.Unlock()
			logger.Error("event handler panicked", "event", event, "panic", r)
		}
	}()
	fn(payload)
}

// HandlerCount returns the number of handlers registered for event.
func (b *Bus) HandlerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}
