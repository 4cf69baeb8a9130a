/*
Package chat contains the real-time transport layer: it manages WebSocket
connections and ferries messages between players and the game engine.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle and the message communication loops
(ReadPump and WritePump).
*/
package chat

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"goroda/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	// City names and side messages are short, anything bigger is garbage.
	maxMessageSize = 2048

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// Client struct represents an active WebSocket connection of a single player.
type Client struct {
	// the hub this client is registered with.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// PlayerID is the guest identifier from the player's session token.
	PlayerID string

	// Name is the player's display name from the session token.
	Name string

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// closeOnce guards the send channel so Kick and unregister cannot both close it.
	closeOnce sync.Once

	// closeFrame, when set before the send channel closes, is the close frame
	// WritePump sends instead of the default empty one. Set only inside
	// closeOnce so it is visible to WritePump once the channel drains.
	closeFrame []byte

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(hub *Hub, wsConn *websocket.Conn, playerID, name string) *Client {
	clientLogger := logx.Logger().With().
		Str("player_id", playerID).
		Logger()

	return &Client{
		hub:      hub,
		conn:     wsConn,
		PlayerID: playerID,
		Name:     name,
		send:     make(chan []byte, 64),
		logger:   clientLogger,
	}
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), envelope parsing, and performs cleanup upon
// connection closure. Every valid text frame is handed to the game engine.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage parses a raw frame and forwards its text to the game engine.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inbound struct {
		Type MessageType `json:"type"`
		Text string      `json:"text"`
	}

	if err := json.Unmarshal(messageBytes, &inbound); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	if inbound.Type != TypeText {
		c.logger.Warn().Str("msg_type", string(inbound.Type)).Msg("Client sent unsupported message type")
		return
	}

	text := strings.TrimSpace(inbound.Text)
	if text == "" {
		return
	}

	c.hub.game.HandleMessage(c.PlayerID, text)
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		frame := c.closeFrame
		if frame == nil {
			frame = []byte{}
		}
		if err := c.conn.WriteMessage(websocket.CloseMessage, frame); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue marshals the message and attempts to queue it on the send channel.
// A full queue drops the message rather than blocking the caller.
func (c *Client) enqueue(msg Message) {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling message for client")
		return
	}

	select {
	case c.send <- messageBytes:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
	}
}

// Kick gracefully closes the client's connection with a custom WebSocket
// Close Frame (Code 4001) indicating that the session was replaced. The frame
// is handed to WritePump through the send channel teardown rather than
// written here, since the connection allows only one concurrent writer.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Kicking client, closing connection.")

	c.closeOnce.Do(func() {
		c.closeFrame = websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)
		close(c.send)
	})
}

// closeSend closes the send channel exactly once, terminating the WritePump.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
