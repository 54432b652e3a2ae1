package handlers

import (
	"context"

	"chatroom/server/internal/middleware"
	"chatroom/server/internal/session"
	ws "chatroom/server/internal/websocket"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WebSocketHandler connects authenticated users to the hub
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Upgrade checks if the request should be upgraded to WebSocket
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return respondFailure(c, fiber.StatusUpgradeRequired, "WebSocket upgrade required")
}

// Handle serves one WebSocket connection
func (h *WebSocketHandler) Handle(conn *websocket.Conn) {
	// Locals set by the session gate survive the upgrade
	sess, ok := conn.Locals(middleware.SessionLocalKey).(session.Session)
	if !ok || !sess.Authenticated() {
		conn.Close()
		return
	}

	client := ws.NewClient(sess.UserID, conn, h.hub)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(context.Background()) // Blocks until the connection closes
}

// Stats returns WebSocket connection statistics
func (h *WebSocketHandler) Stats(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, fiber.Map{
		"onlineUsers": h.hub.GetOnlineCount(),
		"userIds":     h.hub.GetOnlineUsers(),
	})
}
