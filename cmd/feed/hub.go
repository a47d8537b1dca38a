package main

import (
	"context"
	"sync"

	"github.com/lyzr/patternatlas/common/logger"
)

// Hub maintains active WebSocket connections and broadcasts events to them
type Hub struct {
	clients map[*Client]struct{}
	mutex   sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	log *logger.Logger
}

// Message is one knowledge base event ready to send
type Message struct {
	Type string
	Data []byte
}

// NewHub creates a new Hub instance
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		log:        log,
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.log.Info("hub stopped")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Publish queues a message for every interested client
func (h *Hub) Publish(m *Message) {
	h.broadcast <- m
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = struct{}{}
	h.log.Debug("client registered", "remote", client.remote, "total", len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.log.Debug("client unregistered", "remote", client.remote, "remaining", len(h.clients))
}

// broadcastMessage sends to every client subscribed to the message type.
// Clients whose buffer is full are dropped.
func (h *Hub) broadcastMessage(message *Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if !client.wants(message.Type) {
			continue
		}
		select {
		case client.send <- message.Data:
		default:
			h.log.Warn("client send buffer full, closing connection", "remote", client.remote)
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// ConnectionCount returns the number of active connections
func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
