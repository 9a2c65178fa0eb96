package eventbridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ninthcircle/conclave/internal/runtime"
)

func dialSpectator(t *testing.T, hub *Hub, gameID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeSpectator(w, r, gameID)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishDeliversToConnectedSpectator(t *testing.T) {
	hub := NewHub()
	conn := dialSpectator(t, hub, "g1")

	waitForSubscriberCount(t, hub, "g1", 1)

	hub.Publish("g1", WireEvent{Type: "phase_started", GameID: "g1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var ev WireEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "phase_started" || ev.GameID != "g1" {
		t.Errorf("unexpected wire event: %+v", ev)
	}
}

func TestHub_PublishOnlyReachesSubscribersOfThatGame(t *testing.T) {
	hub := NewHub()
	connG1 := dialSpectator(t, hub, "g1")
	_ = dialSpectator(t, hub, "g2")

	waitForSubscriberCount(t, hub, "g1", 1)
	waitForSubscriberCount(t, hub, "g2", 1)

	hub.Publish("g1", WireEvent{Type: "phase_started", GameID: "g1"})

	connG1.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := connG1.ReadMessage(); err != nil {
		t.Fatalf("expected g1 subscriber to receive the event: %v", err)
	}
	if hub.SubscriberCount("g2") != 1 {
		t.Error("expected g2's subscriber count to be unaffected by a g1 publish")
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	conn := dialSpectator(t, hub, "g1")
	waitForSubscriberCount(t, hub, "g1", 1)

	conn.Close()
	waitForSubscriberCount(t, hub, "g1", 0)
}

func TestHub_ListenerForTranslatesCoordinatorEvent(t *testing.T) {
	hub := NewHub()
	conn := dialSpectator(t, hub, "g1")
	waitForSubscriberCount(t, hub, "g1", 1)

	listener := hub.ListenerFor("g1")
	listener(runtime.Event{
		Type:  runtime.EventAgentTurnCompleted,
		Power: "france",
		Time:  time.Now(),
		Data:  map[string]any{"orders": 3.0},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var ev WireEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != string(runtime.EventAgentTurnCompleted) || ev.Power != "france" || ev.GameID != "g1" {
		t.Errorf("unexpected translated event: %+v", ev)
	}
}

func TestHub_PublishWithNoSubscribersDoesNotPanic(t *testing.T) {
	hub := NewHub()
	hub.Publish("ghost-game", WireEvent{Type: "phase_started"})
	if hub.SubscriberCount("ghost-game") != 0 {
		t.Error("expected no subscribers for a game nobody connected to")
	}
}

func waitForSubscriberCount(t *testing.T, hub *Hub, gameID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount(gameID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for subscriber count %d on %q, got %d", want, gameID, hub.SubscriberCount(gameID))
}
