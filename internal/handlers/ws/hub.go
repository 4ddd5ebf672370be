package ws

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

var (
	// ErrUnknownConnection means the connection id is not registered.
	ErrUnknownConnection = errors.New("unknown connection")
	// ErrNotAuthenticated means the connection has not completed the
	// authenticate handshake.
	ErrNotAuthenticated = errors.New("connection not authenticated")
)

// ClientConnection wraps a websocket connection with its gateway state:
// unauthenticated on connect, authenticated after a successful handshake,
// gone on disconnect. Subscriptions require the authenticated state.
type ClientConnection struct {
	Conn          *websocket.Conn
	ID            string
	Authenticated bool
	ConnectedAt   time.Time
	Subscriptions map[string]struct{}
	LastPong      time.Time
	PingTicker    *time.Ticker
	CloseChan     chan struct{}
}

// Hub owns the registry of active websocket connections. All state lives
// here, scoped to the process; nothing survives a restart.
type Hub struct {
	clients      map[string]*ClientConnection
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
	done         chan struct{}
}

func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[string]*ClientConnection),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
		done:         make(chan struct{}),
	}

	go hub.connectionHealthChecker()

	return hub
}

// Close stops the background health checker. Registered connections keep
// their own close handling.
func (h *Hub) Close() {
	close(h.done)
}

// Register adds a connection in the unauthenticated state and starts its
// keepalive ping routine.
func (h *Hub) Register(connID string, conn *websocket.Conn) {
	client := &ClientConnection{
		Conn:          conn,
		ID:            connID,
		ConnectedAt:   time.Now().UTC(),
		Subscriptions: make(map[string]struct{}),
		LastPong:      time.Now(),
		PingTicker:    time.NewTicker(h.pingInterval),
		CloseChan:     make(chan struct{}),
	}

	conn.SetPongHandler(h.pongHandler(connID, conn.SetReadDeadline))
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	h.clients[connID] = client
	total := len(h.clients)
	h.clientsMux.Unlock()

	go h.pingRoutine(client)

	log.Printf("[ws] connection %s registered (total: %d)", connID, total)
}

// Unregister removes a connection, whatever its state.
func (h *Hub) Unregister(connID string) {
	h.clientsMux.Lock()
	if client, exists := h.clients[connID]; exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
	}
	delete(h.clients, connID)
	total := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("[ws] connection %s removed (total: %d)", connID, total)
}

// Authenticate transitions a connection to the authenticated state.
func (h *Hub) Authenticate(connID string) error {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	client, exists := h.clients[connID]
	if !exists {
		return ErrUnknownConnection
	}
	client.Authenticated = true
	return nil
}

// IsAuthenticated reports whether the connection completed the handshake.
func (h *Hub) IsAuthenticated(connID string) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	client, exists := h.clients[connID]
	return exists && client.Authenticated
}

// Subscribe records a group subscription. Only authenticated connections
// may subscribe.
func (h *Hub) Subscribe(connID, groupID string) error {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	client, exists := h.clients[connID]
	if !exists {
		return ErrUnknownConnection
	}
	if !client.Authenticated {
		return ErrNotAuthenticated
	}
	client.Subscriptions[groupID] = struct{}{}
	return nil
}

// Subscriptions lists the group ids a connection is subscribed to.
func (h *Hub) Subscriptions(connID string) []string {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	client, exists := h.clients[connID]
	if !exists {
		return nil
	}
	groups := make([]string, 0, len(client.Subscriptions))
	for groupID := range client.Subscriptions {
		groups = append(groups, groupID)
	}
	return groups
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// pongHandler records the pong and pushes the read deadline forward, so a
// responsive connection stays open indefinitely.
func (h *Hub) pongHandler(connID string, extendDeadline func(time.Time) error) func(string) error {
	return func(appData string) error {
		h.clientsMux.Lock()
		if c, exists := h.clients[connID]; exists {
			c.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		return extendDeadline(time.Now().Add(h.pongTimeout))
	}
}

// pingRoutine sends periodic ping frames to keep the connection alive.
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ws] ping routine recovered for connection %s: %v", client.ID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.clientsMux.RLock()
			_, exists := h.clients[client.ID]
			h.clientsMux.RUnlock()
			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("[ws] ping failed for connection %s: %v", client.ID, err)
				h.Unregister(client.ID)
				return
			}
		}
	}
}

// connectionHealthChecker drops connections that stopped answering pings.
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.clientsMux.RLock()
			var dead []string
			now := time.Now()
			for connID, client := range h.clients {
				if now.Sub(client.LastPong) > h.pongTimeout {
					dead = append(dead, connID)
				}
			}
			h.clientsMux.RUnlock()

			for _, connID := range dead {
				log.Printf("[ws] removing dead connection %s (no pong received)", connID)
				h.Unregister(connID)
			}
		}
	}
}
