package nav

import (
	"reflect"
	"slices"
	"sync"
)

// EventBus is an in-process publish/subscribe hub keyed by event type.
// Handlers run synchronously on the publishing goroutine.
type EventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[reflect.Type]map[int]any
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[reflect.Type]map[int]any)}
}

// Subscribe registers fn for events of type E and returns a function that
// removes it again.
func Subscribe[E any](bus *EventBus, fn func(E)) (unsubscribe func()) {
	typ := reflect.TypeFor[E]()

	bus.mu.Lock()
	id := bus.nextID
	bus.nextID++
	if bus.handlers[typ] == nil {
		bus.handlers[typ] = make(map[int]any)
	}
	bus.handlers[typ][id] = fn
	bus.mu.Unlock()

	return func() {
		bus.mu.Lock()
		delete(bus.handlers[typ], id)
		bus.mu.Unlock()
	}
}

// Publish delivers event to every current subscriber of its type, in
// subscription order.
func Publish[E any](bus *EventBus, event E) {
	typ := reflect.TypeFor[E]()

	bus.mu.RLock()
	ids := make([]int, 0, len(bus.handlers[typ]))
	for id := range bus.handlers[typ] {
		ids = append(ids, id)
	}
	handlers := make(map[int]any, len(ids))
	for _, id := range ids {
		handlers[id] = bus.handlers[typ][id]
	}
	bus.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		handlers[id].(func(E))(event)
	}
}

// HighlightCategoryProfiles is the category of subsystem navigation trees.
const HighlightCategoryProfiles = "profiles"

// LHSHighlightEvent asks the left-hand navigation to highlight an item.
type LHSHighlightEvent struct {
	TreeID   string
	ItemText string
	Category string
}
