package main

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub fans game notifications out to every connected websocket client.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan wsMessage
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan wsMessage, 64),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues msg for broadcast without blocking; when the queue is full the message is
// dropped, since every status message carries the full position.
func (h *Hub) Publish(msg wsMessage) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Str("type", msg.Type).Msg("hub queue full, dropping message")
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
