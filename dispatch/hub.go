// Package dispatch pushes order lifecycle events to connected dispatch
// screens over websocket.
package dispatch

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/tuber-treats/utils"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventDriverAssigned = "driver_assigned"
	EventOrderCompleted = "order_completed"
	EventToppingAdded   = "topping_added"
	EventToppingRemoved = "topping_removed"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 5 * time.Second
	// sendBuffer is how many messages may queue for one client before it is
	// dropped as too slow.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn   Conn
	screen string
	send   chan []byte
}

// Hub holds the connected clients. Each client has its own writer goroutine
// fed through a buffered channel, so Publish never waits on a socket.
type Hub struct {
	clients map[Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]*client)}
}

func (h *Hub) Register(conn Conn, screen string) {
	c := &client{conn: conn, screen: screen, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	if old, ok := h.clients[conn]; ok {
		close(old.send)
	}
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(conn)
}

// removeLocked drops conn; h.mutex must be held.
func (h *Hub) removeLocked(conn Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
	conn.Close()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues the event for every client. A client whose queue is full or
// whose write fails is dropped; the caller never sees the failure.
func (h *Hub) Publish(event string, data interface{}) {
	h.broadcast(Message{Event: event, Data: data})
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling dispatch message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("Broadcasting dispatch message")

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.Printf("Dropping slow dispatch screen %s on %s", c.screen, msg.Event)
			h.removeLocked(conn)
		}
	}
}

// writePump writes queued messages to one client until its queue is closed or
// a write fails.
func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending to screen %s: %v", c.screen, err)
			h.dropClient(c)
			return
		}
	}
}

// dropClient removes c unless conn has since been registered again.
func (h *Hub) dropClient(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if current, ok := h.clients[c.conn]; ok && current == c {
		h.removeLocked(c.conn)
	}
}
