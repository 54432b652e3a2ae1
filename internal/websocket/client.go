package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Client represents a WebSocket client connection
type Client struct {
	ID   string // User ID
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte
}

// NewClient creates a new WebSocket client
func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   userID,
		Conn: conn,
		Hub:  hub,
		Send: make(chan []byte, sendBuffer),
	}
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn().Err(err).Str("user_id", c.ID).Msg("websocket read error")
			}
			break
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.sendError("bad_request", "malformed message")
			continue
		}

		c.handleIncomingMessage(ctx, incoming)
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.log.Warn().Err(err).Str("user_id", c.ID).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncomingMessage processes the events clients may send
func (c *Client) handleIncomingMessage(ctx context.Context, msg IncomingMessage) {
	switch msg.Type {
	case EventTypingStart, EventTypingStop:
		payload := msg.Payload
		payload.UserID = c.ID
		if err := c.Hub.RelayTyping(ctx, msg.Type, payload); err != nil {
			c.Hub.log.Warn().Err(err).Str("user_id", c.ID).Msg("failed to relay typing event")
		}
	default:
		c.sendError("unknown_event", "unsupported event type: "+string(msg.Type))
	}
}

// sendError queues an error event for this client only
func (c *Client) sendError(code, message string) {
	data, err := json.Marshal(WSMessage{
		Type:      EventError,
		Payload:   ErrorPayload{Code: code, Message: message},
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	c.Hub.sendTo(c, data)
}
