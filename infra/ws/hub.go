// Package ws pushes wallet and rate updates to connected clients. Connections
// are grouped per user so ledger events reach every session of the affected
// user, and only those.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Server-to-client event names.
const (
	EventCryptoPriceUpdate = "cryptoPriceUpdate"
	EventBalanceUpdate     = "balanceUpdate"
	EventTransactionUpdate = "transactionUpdate"
)

// Client-to-server event names.
const (
	EventJoinUser           = "joinUser"
	EventRequestCryptoPrice = "requestCryptoPrice"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Message is the JSON envelope on the wire in both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan []byte
}

// Hub tracks connected clients grouped by user id.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]map[*client]struct{}
	logger *slog.Logger

	// OnPriceRequest supplies the payload for a requestCryptoPrice reply.
	OnPriceRequest func(ctx context.Context) any
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		byUser: make(map[uuid.UUID]map[*client]struct{}),
		logger: logger.With("component", "ws"),
	}
}

// SendToUser pushes an event to every connection of the given user. Slow
// connections drop the message rather than block the caller.
func (h *Hub) SendToUser(userID uuid.UUID, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("ws encode failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("ws send buffer full, dropping",
				"user_id", userID, "event", event)
		}
	}
}

// Broadcast pushes an event to every connected client.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("ws encode failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.byUser {
		for c := range clients {
			select {
			case c.send <- payload:
			default:
			}
		}
	}
}

// Serve runs the read and write loops for an authenticated connection until
// it closes. The connection is bound to userID at upgrade time; a joinUser
// message from the client is accepted for compatibility but cannot rebind it.
func (h *Hub) Serve(conn *websocket.Conn, userID uuid.UUID) {
	c := &client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
	h.register(c)
	defer h.unregister(c)

	done := make(chan struct{})
	go h.writeLoop(c, done)
	h.readLoop(c)
	close(done)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[c.userID] == nil {
		h.byUser[c.userID] = make(map[*client]struct{})
	}
	h.byUser[c.userID][c] = struct{}{}
	h.logger.Info("ws connected", "user_id", c.userID)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.byUser[c.userID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	_ = c.conn.Close()
	h.logger.Info("ws disconnected", "user_id", c.userID)
}

func (h *Hub) readLoop(c *client) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Debug("ws bad message", "user_id", c.userID, "error", err)
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (h *Hub) handleMessage(c *client, msg Message) {
	switch msg.Event {
	case EventJoinUser:
		// Identity comes from the token, nothing to do.
	case EventRequestCryptoPrice:
		if h.OnPriceRequest == nil {
			return
		}
		payload, err := encode(EventCryptoPriceUpdate, h.OnPriceRequest(context.Background()))
		if err != nil {
			h.logger.Error("ws encode failed", "event", EventCryptoPriceUpdate, "error", err)
			return
		}
		select {
		case c.send <- payload:
		default:
		}
	default:
		h.logger.Debug("ws unknown event", "user_id", c.userID, "event", msg.Event)
	}
}

func (h *Hub) writeLoop(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: raw})
}
