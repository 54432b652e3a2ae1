package websocket

import (
	"time"

	"chatroom/server/internal/events"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Message events, mirroring events.Kind
	EventMessageCreated EventType = EventType(events.MessageCreated)
	EventMessageUpdated EventType = EventType(events.MessageUpdated)
	EventMessageDeleted EventType = EventType(events.MessageDeleted)

	// Typing events
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"

	// Error events
	EventError EventType = "error"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// TypingPayload represents typing indicator payload
type TypingPayload struct {
	UserID     string `json:"userId"`
	ReceiverID string `json:"receiverId,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
}

// ErrorPayload represents error event payload
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IncomingMessage represents messages received from clients
type IncomingMessage struct {
	Type    EventType     `json:"type"`
	Payload TypingPayload `json:"payload"`
}
