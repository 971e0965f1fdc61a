package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type otherEvent struct{ n int }

func TestEventBusDeliversByType(t *testing.T) {
	bus := NewEventBus()

	var got []LHSHighlightEvent
	var order []string
	Subscribe(bus, func(e LHSHighlightEvent) {
		got = append(got, e)
		order = append(order, "first")
	})
	Subscribe(bus, func(LHSHighlightEvent) { order = append(order, "second") })

	others := 0
	Subscribe(bus, func(otherEvent) { others++ })

	Publish(bus, LHSHighlightEvent{TreeID: "subsys", ItemText: "Datasources", Category: HighlightCategoryProfiles})

	assert.Equal(t, []LHSHighlightEvent{{TreeID: "subsys", ItemText: "Datasources", Category: "profiles"}}, got)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Zero(t, others)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	unsubscribe := Subscribe(bus, func(otherEvent) { calls++ })

	Publish(bus, otherEvent{n: 1})
	unsubscribe()
	Publish(bus, otherEvent{n: 2})

	assert.Equal(t, 1, calls)
}

func TestEventBusPublishWithoutSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		Publish(NewEventBus(), otherEvent{})
	})
}
