// Package messaging provides real-time fan-out of session-change events to
// connected admin clients.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// SessionClient represents a single connected admin dashboard client.
// WritePump is the connection's only writer; CloseReason, when set before
// the client is unregistered, becomes the close frame it sends on exit.
type SessionClient struct {
	Conn        *websocket.Conn
	Send        chan []byte
	CloseReason []byte
}

// SessionEventPayload is the wire shape of a session-change notification.
type SessionEventPayload struct {
	Type      string    `json:"type"` // signed_in, signed_out, token_refreshed
	Role      string    `json:"role,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionBroadcaster manages all connected admin clients and relays
// session-change events to them.
type SessionBroadcaster struct {
	clients    map[*SessionClient]bool
	register   chan *SessionClient
	unregister chan *SessionClient
	events     chan SessionEventPayload
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewSessionBroadcaster creates a new broadcaster instance.
func NewSessionBroadcaster(logger *logging.ChanneledLogger) *SessionBroadcaster {
	return &SessionBroadcaster{
		clients:    make(map[*SessionClient]bool),
		register:   make(chan *SessionClient),
		unregister: make(chan *SessionClient),
		events:     make(chan SessionEventPayload, 16),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *SessionBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.Session().Info("Session feed client registered", "clients", b.clientCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.Session().Info("Session feed client unregistered", "clients", b.clientCount())

		case event := <-b.events:
			payload, err := json.Marshal(event)
			if err != nil {
				b.logger.Session().Error("Failed to marshal session event", "error", err.Error())
				continue
			}

			b.mu.RLock()
			for client := range b.clients {
				select {
				case client.Send <- payload:
				default:
					// Slow consumer; drop the event for this client.
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Broadcast queues a session event for delivery to all connected clients.
func (b *SessionBroadcaster) Broadcast(eventType, role string) {
	event := SessionEventPayload{
		Type:      eventType,
		Role:      role,
		Timestamp: time.Now().UTC(),
	}
	select {
	case b.events <- event:
	default:
		b.logger.Session().Warn("Session event queue full, dropping event", "type", eventType)
	}
}

// Register attaches a client to the broadcaster.
func (b *SessionBroadcaster) Register(client *SessionClient) {
	b.register <- client
}

// Unregister detaches a client and closes its send channel.
func (b *SessionBroadcaster) Unregister(client *SessionClient) {
	b.unregister <- client
}

func (b *SessionBroadcaster) clientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// WritePump drains a client's send channel onto its websocket connection
// with periodic pings. Runs until the send channel closes or a write fails.
func (b *SessionBroadcaster) WritePump(client *SessionClient, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, client.CloseReason)
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
