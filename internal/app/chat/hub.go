/*
Package chat contains the real-time transport layer: it manages WebSocket
connections and ferries messages between players and the game engine.

This file defines the Hub struct, the flat registry of connected players.
It delivers engine output to connections and enforces single-connection
semantics per player.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/logx"
)

// GameHandler consumes inbound player text. The engine implements it.
type GameHandler interface {
	HandleMessage(playerID string, text string)
}

// Hub coordinates all active WebSocket connections, keyed by player ID.
// It implements the engine's Sender so game output reaches the right socket.
type Hub struct {
	// mu protects concurrent access to the clients map.
	mu sync.RWMutex

	// clients maps player ID to the single active connection of that player.
	clients map[string]*Client

	// game receives every inbound text frame.
	game GameHandler

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub with no registered connections. Bind must be called
// before the first connection is registered.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Bind attaches the game handler. Split from NewHub because the engine and
// the hub reference each other.
func (h *Hub) Bind(game GameHandler) {
	h.game = game
}

// Register adds a client to the hub. If the player already has a live
// connection, the old one is kicked with close code 4001 and replaced.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	previous, exists := h.clients[c.PlayerID]
	h.clients[c.PlayerID] = c
	h.mu.Unlock()

	if exists {
		kickErr := errs.NewError(errs.ErrSessionKicked)
		previous.Kick(kickErr.Message)
	}

	h.logger.Info().Str("player_id", c.PlayerID).Bool("replaced", exists).Msg("Client registered.")
}

// unregister removes the client from the hub and terminates its WritePump.
// A client that was already replaced by a newer connection is only torn down,
// the registry entry belongs to the newcomer.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.PlayerID]; ok && current == c {
		delete(h.clients, c.PlayerID)
	}
	h.mu.Unlock()

	c.closeSend()

	h.logger.Info().Str("player_id", c.PlayerID).Msg("Client unregistered.")
}

// Send queues a text frame for the player. Output for a disconnected player
// is dropped silently, the game does not track connection liveness.
func (h *Hub) Send(playerID string, text string, rich bool) {
	h.mu.RLock()
	client, ok := h.clients[playerID]
	h.mu.RUnlock()

	if !ok {
		h.logger.Debug().Str("player_id", playerID).Msg("Dropping message for disconnected player")
		return
	}

	client.enqueue(NewMessage(TypeText, text, rich))
}

// SendError queues an error frame carrying the business code for the player.
func (h *Hub) SendError(playerID string, code int, message string) {
	h.mu.RLock()
	client, ok := h.clients[playerID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	msg := NewMessage(TypeError, message, false)
	msg.Code = code
	client.enqueue(msg)
}

// ConnectedCount returns the number of live connections.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every registered connection's send queue so the write pumps
// flush pending frames and exit.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
	}

	h.logger.Info().Int("closed", len(clients)).Msg("Hub shutdown complete.")
}
