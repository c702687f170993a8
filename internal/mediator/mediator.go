// Package mediator provides a synchronous publish/subscribe hub that
// decouples gameplay subsystems.
//
// Events are a closed set of types defined by the game; each event type
// reports the Topic it is published on. Handlers are typed functions of one
// event type and are invoked synchronously, in registration order, on the
// goroutine that calls Publish. There is no queue and no deferred delivery.
//
// A panic inside one handler is recovered and logged; the remaining handlers
// for that event still run.
package mediator

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Topic identifies a channel of events. Games define their topics as
// constants of this type.
type Topic uint16

// Event is implemented by every event type. The topic is a property of the
// type, not of the value.
type Event interface {
	Topic() Topic
}

// Handler receives events of a topic.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
// The zero value is not a valid subscription; unsubscribing it is a no-op.
type Subscription struct {
	topic Topic
	id    uint64
}

// Valid reports whether the subscription was returned by Subscribe.
func (s Subscription) Valid() bool {
	return s.id != 0
}

type entry struct {
	id      uint64
	handler Handler
	removed bool
}

// Mediator dispatches events to handlers by topic.
// It is not safe for concurrent use; all calls happen on the game loop.
type Mediator struct {
	handlers map[Topic][]*entry
	nextID   uint64
	logger   *log.Logger
	panics   int
}

// New creates an empty mediator. A nil logger uses the default logger.
func New(logger *log.Logger) *Mediator {
	if logger == nil {
		logger = log.Default()
	}
	return &Mediator{
		handlers: make(map[Topic][]*entry),
		logger:   logger,
	}
}

// Subscribe registers a handler for a topic. Multiple handlers per topic are
// allowed and are invoked in registration order.
func (m *Mediator) Subscribe(topic Topic, h Handler) Subscription {
	m.nextID++
	m.handlers[topic] = append(m.handlers[topic], &entry{id: m.nextID, handler: h})
	return Subscription{topic: topic, id: m.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown or already
// removed subscriptions are ignored. A handler removed while an event is
// being published is not invoked for the rest of that publish.
func (m *Mediator) Unsubscribe(sub Subscription) {
	if !sub.Valid() {
		return
	}
	list := m.handlers[sub.topic]
	for i, e := range list {
		if e.id == sub.id {
			e.removed = true
			m.handlers[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish synchronously invokes every current handler for the event's topic.
// Handlers subscribed during the publish are not invoked for this event.
func (m *Mediator) Publish(ev Event) {
	list := m.handlers[ev.Topic()]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*entry, len(list))
	copy(snapshot, list)

	for _, e := range snapshot {
		if e.removed {
			continue
		}
		m.invoke(e, ev)
	}
}

func (m *Mediator) invoke(e *entry, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			m.panics++
			m.logger.Error("event handler panicked",
				"event", fmt.Sprintf("%T", ev),
				"subscription", e.id,
				"panic", r,
			)
		}
	}()
	e.handler(ev)
}

// HandlerCount returns the number of handlers registered for a topic.
func (m *Mediator) HandlerCount(topic Topic) int {
	return len(m.handlers[topic])
}

// Panics returns how many handler panics have been recovered.
func (m *Mediator) Panics() int {
	return m.panics
}

// Reset drops every subscription.
func (m *Mediator) Reset() {
	for _, list := range m.handlers {
		for _, e := range list {
			e.removed = true
		}
	}
	m.handlers = make(map[Topic][]*entry)
}

// On subscribes a handler typed to a single event type. The topic is taken
// from the event type itself, so E must be a value type whose Topic method
// does not depend on field values.
func On[E Event](m *Mediator, fn func(E)) Subscription {
	var zero E
	return m.Subscribe(zero.Topic(), func(ev Event) {
		if typed, ok := ev.(E); ok {
			fn(typed)
		}
	})
}
