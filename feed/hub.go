// Package feed streams guard state changes and simulation snapshots to
// websocket observers.
package feed

import (
	"sync"
)

const (
	MessageState    = "guard_state"
	MessageMission  = "mission"
	MessageSnapshot = "snapshot"
	MessageHello    = "hello"
)

type Message struct {
	Type string `json:"type"`
	Tick uint64 `json:"tick"`
	Data any    `json:"data,omitempty"`
}

// Hub fans messages out to connected clients. Slow clients lose messages
// instead of stalling the simulation. The hub never calls back into the
// simulation: joining clients get the last published hello message.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	hello    Message
	hasHello bool
}

func NewHub() *Hub {
	return &Hub{clients: map[*Client]struct{}{}}
}

// SetHello sets the message sent to every client right after it joins.
// msg must not be mutated afterwards.
func (h *Hub) SetHello(msg Message) {
	h.mu.Lock()
	h.hello = msg
	h.hasHello = true
	h.mu.Unlock()
}

// Hello returns the current hello message.
func (h *Hub) Hello() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hello, h.hasHello
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.hasHello {
		c.enqueue(h.hello)
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(msg)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
