package runtime

import (
	"sync"
	"testing"
	"time"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

func TestEventStream_PublishDeliversToAllSubscribers(t *testing.T) {
	es := newEventStream()
	var mu sync.Mutex
	var seenA, seenB []EventType

	es.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		seenA = append(seenA, ev.Type)
	})
	es.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		seenB = append(seenB, ev.Type)
	})

	es.publish(Event{Type: EventGameStarted, Time: time.Now()})

	mu.Lock()
	defer mu.Unlock()
	if len(seenA) != 1 || seenA[0] != EventGameStarted {
		t.Errorf("expected subscriber A to see the event, got %v", seenA)
	}
	if len(seenB) != 1 || seenB[0] != EventGameStarted {
		t.Errorf("expected subscriber B to see the event, got %v", seenB)
	}
}

func TestEventStream_UnsubscribeStopsDelivery(t *testing.T) {
	es := newEventStream()
	var mu sync.Mutex
	count := 0

	id := es.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})
	es.publish(Event{Type: EventGameStarted})
	es.Unsubscribe(id)
	es.publish(Event{Type: EventGameStarted})

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected exactly 1 delivery before unsubscribe, got %d", count)
	}
}

func TestEventStream_PanickingListenerDoesNotBlockOthers(t *testing.T) {
	es := newEventStream()
	var mu sync.Mutex
	otherCalled := false

	es.Subscribe(func(ev Event) {
		panic("boom")
	})
	es.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		otherCalled = true
	})

	es.publish(Event{Type: EventGameStarted})

	mu.Lock()
	defer mu.Unlock()
	if !otherCalled {
		t.Error("expected the second listener to still run despite the first panicking")
	}
}

func TestEventStream_PowerScopedEventCarriesPower(t *testing.T) {
	es := newEventStream()
	var got Event
	es.Subscribe(func(ev Event) { got = ev })

	es.publish(Event{Type: EventAgentTurnFailed, Power: diplomacy.France})

	if got.Power != diplomacy.France {
		t.Errorf("expected event to carry the scoped power, got %q", got.Power)
	}
}
