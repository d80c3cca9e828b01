package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client is one live socket. gorilla/websocket supports at most one
// concurrent writer per connection, so every write (event push, keepalive
// ping, protocol ack) goes through the client's write lock.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (c *client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) writePing() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *client) close() {
	_ = c.conn.Close()
}

// Hub is the connection registry: user id -> set of live clients. A user may
// be connected from several tabs or devices, so the value is a set rather
// than a single handle.
type Hub struct {
	mutex   sync.RWMutex
	clients map[int64]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
	}
}

func (h *Hub) register(userID int64, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(userID int64, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, exists := set[c]; exists {
		c.close()
		delete(set, c)
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// Push writes the event to every live connection of the user. It reports
// whether at least one write succeeded; dead connections are dropped.
func (h *Hub) Push(userID int64, event any) bool {
	h.mutex.RLock()
	clients := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		clients = append(clients, c)
	}
	h.mutex.RUnlock()

	delivered := false
	for _, c := range clients {
		if err := c.writeJSON(event); err != nil {
			h.unregister(userID, c)
			continue
		}
		delivered = true
	}
	return delivered
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients[userID]) > 0
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, userID)
	}
}
