/*
Package chat contains the real-time transport layer: it manages WebSocket
connections and ferries messages between players and the game engine.

This file defines the wire envelope exchanged with clients. Every frame in
either direction is a JSON-encoded Message.
*/
package chat

import (
	"time"

	"goroda/internal/pkg/randx"
)

// MessageType identifies what kind of payload a Message carries.
type MessageType string

const (
	// TypeText is the only inbound type: a player's move, command, or side message.
	// Outbound it carries the engine's plain-text replies.
	TypeText MessageType = "TEXT"

	// TypeError carries a business error code with a player-facing message.
	TypeError MessageType = "ERROR"
)

// Message is the JSON envelope for every WebSocket frame.
type Message struct {
	// ID is the server-assigned unique identifier of the message.
	ID string `json:"id"`

	// Type discriminates the payload.
	Type MessageType `json:"type"`

	// Text is the message body. For outbound frames this is the engine's reply.
	Text string `json:"text"`

	// Rich marks outbound texts that contain the supported HTML subset
	// (<b> tags in city info cards and the rules text).
	Rich bool `json:"rich,omitempty"`

	// Code is the business error code, set only on TypeError frames.
	Code int `json:"code,omitempty"`

	// Timestamp is the server time the message was created, in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// NewMessage constructs an outbound Message with a fresh ID and timestamp.
func NewMessage(msgType MessageType, text string, rich bool) Message {
	return Message{
		ID:        randx.MessageID(),
		Type:      msgType,
		Text:      text,
		Rich:      rich,
		Timestamp: time.Now().UnixMilli(),
	}
}
