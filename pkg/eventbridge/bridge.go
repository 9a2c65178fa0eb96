// Package eventbridge translates a runtime.Coordinator's event stream
// into WebSocket frames, so a browser or CLI spectator can watch a
// game live. Authentication/authorization is out of scope here — the
// caller decides who may open the upgrade.
package eventbridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ninthcircle/conclave/internal/runtime"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WireEvent is the JSON envelope sent to spectators for every
// coordinator event.
type WireEvent struct {
	Type   string         `json:"type"`
	GameID string         `json:"game_id"`
	Power  string         `json:"power,omitempty"`
	Time   time.Time      `json:"time"`
	Data   map[string]any `json:"data,omitempty"`
}

type conn struct {
	ws   *websocket.Conn
	send chan []byte
}

// Hub fans coordinator events out to every spectator connection
// subscribed to a game.
type Hub struct {
	mu    sync.RWMutex
	games map[string]map[*conn]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{games: make(map[string]map[*conn]bool)}
}

// Publish sends one event to every connection watching gameID.
func (h *Hub) Publish(gameID string, ev WireEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("eventbridge: failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.games[gameID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("gameId", gameID).Msg("eventbridge: dropping frame, send buffer full")
		}
	}
}

func (h *Hub) register(gameID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*conn]bool)
	}
	h.games[gameID][c] = true
}

func (h *Hub) unregister(gameID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.games[gameID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.games, gameID)
		}
	}
	close(c.send)
}

// ListenerFor returns a runtime.Listener that republishes every
// coordinator event for gameID as a spectator frame. Subscribe it with
// Coordinator.Subscribe.
func (h *Hub) ListenerFor(gameID string) runtime.Listener {
	return func(ev runtime.Event) {
		h.Publish(gameID, WireEvent{
			Type:   string(ev.Type),
			GameID: gameID,
			Power:  string(ev.Power),
			Time:   ev.Time,
			Data:   ev.Data,
		})
	}
}

// SubscriberCount reports how many spectators are watching a game.
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// ServeSpectator upgrades the request to a WebSocket and streams events
// for the given game until the client disconnects.
func (h *Hub) ServeSpectator(w http.ResponseWriter, r *http.Request, gameID string) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("eventbridge: upgrade failed")
		return
	}

	c := &conn{ws: ws, send: make(chan []byte, sendBufSize)}
	h.register(gameID, c)

	go h.writePump(c)
	go h.readPump(gameID, c)
}

func (h *Hub) readPump(gameID string, c *conn) {
	defer func() {
		h.unregister(gameID, c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMsgSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
