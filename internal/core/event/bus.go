package event

import "reflect"

// Bus queues typed events for delivery later in the same tick. A producer
// system Emits during its phase; a consumer system in a later phase calls
// Dispatch to hand every queued event of that type to its subscribers, which
// empties the queue. Accessed only from the tick goroutine.
type Bus struct {
	queued   map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		queued:   make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event.
func Emit[T any](b *Bus, event T) {
	t := typeOf[T]()
	b.queued[t] = append(b.queued[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Pending returns how many events of type T are waiting.
func Pending[T any](b *Bus) int {
	return len(b.queued[typeOf[T]()])
}

// Dispatch delivers queued events of type T in emission order and returns how
// many were delivered. Events emitted by a handler during dispatch are kept for
// the next Dispatch call.
func Dispatch[T any](b *Bus) int {
	t := typeOf[T]()
	events := b.queued[t]
	if len(events) == 0 {
		return 0
	}
	b.queued[t] = nil
	for _, ev := range events {
		for _, h := range b.handlers[t] {
			h.(func(T))(ev.(T))
		}
	}
	return len(events)
}

// Discard drops every queued event of every type.
func (b *Bus) Discard() {
	for t := range b.queued {
		b.queued[t] = b.queued[t][:0]
	}
}
