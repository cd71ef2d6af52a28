package api

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// jsonConn is the part of a websocket connection the hub writes to
type jsonConn interface {
	WriteJSON(v interface{}) error
}

type client struct {
	id   string
	conn jsonConn
	mu   sync.Mutex // one writer at a time per connection
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks connected websocket clients
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) add(conn jsonConn) *client {
	c := &client{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v to every client. Clients that fail to receive are dropped.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(v); err != nil {
			log.Printf("WebSocket write error for %s: %v", c.id, err)
			h.remove(c.id)
		}
	}
}
