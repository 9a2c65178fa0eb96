package runtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

// EventType enumerates the kinds of events the coordinator emits.
type EventType string

const (
	EventGameStarted        EventType = "game_started"
	EventPhaseStarted       EventType = "phase_started"
	EventAgentTurnStarted   EventType = "agent_turn_started"
	EventAgentTurnCompleted EventType = "agent_turn_completed"
	EventAgentTurnFailed    EventType = "agent_turn_failed"
	EventPressRoundDone     EventType = "press_round_completed"
	EventPhaseResolved      EventType = "phase_resolved"
	EventGameEnded          EventType = "game_ended"
	EventDrawVoteRecorded   EventType = "draw_vote_recorded"
)

// Event is one notification on the coordinator's event stream.
type Event struct {
	Type   EventType
	GameID string
	Power  diplomacy.Power // empty when not power-scoped
	Time   time.Time
	Data   map[string]any
}

// Listener receives events. It must not block for long — listeners are
// called synchronously on the publishing goroutine, which is a
// per-agent goroutine when parallel execution is enabled.
type Listener func(Event)

// eventStream is a simple subscribe/unsubscribe/publish bus. Listener
// panics are caught and logged so one bad callback never breaks the
// stream for the rest.
type eventStream struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

func newEventStream() *eventStream {
	return &eventStream{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns an id for Unsubscribe.
func (es *eventStream) Subscribe(l Listener) int {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.nextID++
	id := es.nextID
	es.listeners[id] = l
	return id
}

// Unsubscribe removes a previously registered listener.
func (es *eventStream) Unsubscribe(id int) {
	es.mu.Lock()
	defer es.mu.Unlock()
	delete(es.listeners, id)
}

func (es *eventStream) publish(ev Event) {
	es.mu.Lock()
	listeners := make([]Listener, 0, len(es.listeners))
	for _, l := range es.listeners {
		listeners = append(listeners, l)
	}
	es.mu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("event", string(ev.Type)).Msg("event listener panicked")
				}
			}()
			l(ev)
		}()
	}
}
