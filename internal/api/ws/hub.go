// Package ws broadcasts run-completed events to websocket subscribers.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 8
)

// RunEvent is the message pushed to subscribers when a ranking run finishes.
type RunEvent struct {
	Type         string    `json:"type"` // always "run_completed"
	RunID        string    `json:"runId"`
	Philosophy   string    `json:"philosophy"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Ranked       int       `json:"ranked"`
	Disqualified int       `json:"disqualified"`
	TopSymbol    string    `json:"topSymbol,omitempty"`
}

// Hub tracks connected subscribers and fans events out to them. Slow
// subscribers get dropped rather than backing up the broadcaster.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	log      *logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// HandleWS upgrades the connection and registers the subscriber.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.log.WithField("subscribers", count).Debug("Websocket subscriber connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

// NotifyRunCompleted broadcasts a summary of a finished run.
func (h *Hub) NotifyRunCompleted(run *contracts.RankingRun) {
	event := RunEvent{
		Type:         "run_completed",
		RunID:        run.ID,
		Philosophy:   run.Philosophy,
		GeneratedAt:  run.GeneratedAt,
		Ranked:       len(run.Ranked),
		Disqualified: len(run.Disqualified),
	}
	if len(run.Ranked) > 0 {
		event.TopSymbol = run.Ranked[0].Symbol
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal run event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Subscriber is not draining; let its write loop die
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// readLoop discards inbound frames; the endpoint is broadcast-only. It exists
// to process pongs and detect disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
