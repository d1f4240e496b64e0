// Package notifications implements the realtime relay: a fan-out broadcaster
// that rebroadcasts every inbound frame verbatim to all connected peers,
// including the sender, plus server-emitted events for content changes.
package notifications

import (
	"errors"
	"log/slog"
	"sync"

	"abusebin/internal/middleware"
	"abusebin/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerUser = 8
	maxTotalConns   = 10000
)

// Hub tracks every open relay connection. There is no ordering guarantee or
// delivery confirmation; slow clients get frames dropped.
type Hub struct {
	mu         sync.RWMutex
	conns      map[*Client]struct{}
	byUser     map[string]map[*Client]struct{}
	totalConns int
}

// NewHub creates an empty relay hub.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[*Client]struct{}),
		byUser: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection for the given user. Returns an error when a
// connection limit is exceeded.
func (h *Hub) Register(userID string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.byUser[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.byUser[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	h.conns[client] = struct{}{}
	m[client] = struct{}{}
	h.totalConns++
	observability.ActiveWebSockets.Inc()

	return client, nil
}

// UnregisterClient removes a connection from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[client]; !ok {
		return
	}
	delete(h.conns, client)
	if m, ok := h.byUser[client.UserID]; ok {
		delete(m, client)
		if len(m) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
	h.totalConns--
	observability.ActiveWebSockets.Dec()
}

// BroadcastAll fans a frame out to every connected client, the sender
// included.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.TrySend(message)
	}
}

// Relay handles an inbound client frame: rebroadcast verbatim to all peers.
func (h *Hub) Relay(from *Client, message []byte) {
	h.BroadcastAll(message)
}

// IsOnline reports whether the user has at least one open connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m, ok := h.byUser[userID]
	return ok && len(m) > 0
}

// ConnectionCount returns the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// Shutdown closes every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
		h.UnregisterClient(c)
	}
	middleware.Logger.Info("relay hub shut down", slog.Int("closed", len(clients)))
}
