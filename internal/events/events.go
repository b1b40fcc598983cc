// Package events carries completion notifications from the simulator to its
// consumers (TUI, progress recorder, CLI output).
package events

import (
	"slices"
	"sync"
	"time"
)

// Type identifies the kind of an Event.
type Type string

const (
	TypeObjectiveCompleted Type = "objective_completed"
	TypeChallengeCompleted Type = "challenge_completed"
)

// Event is a message published on the Bus.
type Event interface {
	EventType() Type
}

// ObjectiveCompleted fires once per objective when its criteria are first met.
type ObjectiveCompleted struct {
	ObjectiveID string
	ChallengeID string
	At          time.Time
}

func (ObjectiveCompleted) EventType() Type { return TypeObjectiveCompleted }

// ChallengeCompleted fires once when every objective of a challenge is done.
type ChallengeCompleted struct {
	ChallengeID string
	At          time.Time
}

func (ChallengeCompleted) EventType() Type { return TypeChallengeCompleted }

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Event)

// Bus is a typed publish/subscribe hub. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers == nil {
		b.handlers = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every subscriber in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	hs := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// Collector records every event it receives. Useful in tests and for
// summarising a CLI run.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Handle appends e.
func (c *Collector) Handle(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of everything received so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// Count returns how many events of type t were received.
func (c *Collector) Count(t Type) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}
