package session

import (
	"context"
	"log/slog"
)

// Hub serializes websocket joins and leaves across all sessions.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes joins and leaves until ctx is done. After it returns,
// Register refuses new clients and Unregister detaches them directly.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

// Register hands client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister detaches client, even when the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.removeClient(client)
	}
}

func (h *Hub) addClient(client *Client) {
	client.session.addClient(client)
	slog.Info("client joined", "client", client.ClientID, "session", client.session.ID)
}

func (h *Hub) removeClient(client *Client) {
	client.session.removeClient(client)
	slog.Info("client left", "client", client.ClientID, "session", client.session.ID)
}
