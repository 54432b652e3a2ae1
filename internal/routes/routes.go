package routes

import (
	"chatroom/server/internal/handlers"
	"chatroom/server/internal/middleware"
	"chatroom/server/internal/session"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Messages      *handlers.MessageHandler
	Conversations *handlers.ConversationHandler
	Views         *handlers.ViewHandler
	WebSocket     *handlers.WebSocketHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h Handlers, codec *session.Codec, loginPath string) {
	// Landing page (public). Unauthenticated requests are redirected here.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Sign in to continue",
		})
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Chatroom API is running",
		})
	})

	gate := middleware.SessionGate(codec, loginPath)

	// Message routes (protected)
	messages := api.Group("/messages", gate)
	messages.Post("/", middleware.WriteRateLimiter(), h.Messages.CreateMessage)
	messages.Get("/", middleware.ReadRateLimiter(), h.Messages.ListMessages)
	messages.Get("/channel/:channelId", middleware.ReadRateLimiter(), h.Messages.ListChannelMessages)
	messages.Get("/:messageId", middleware.ReadRateLimiter(), h.Messages.GetMessage)
	messages.Put("/:messageId", middleware.WriteRateLimiter(), h.Messages.UpdateMessage)
	messages.Patch("/:messageId", middleware.WriteRateLimiter(), h.Messages.UpdateMessage)
	messages.Delete("/:messageId", middleware.WriteRateLimiter(), h.Messages.DeleteMessage)

	// Conversation routes (protected)
	conversations := api.Group("/conversations", gate, middleware.ReadRateLimiter())
	conversations.Get("/", h.Conversations.GetConversationsBetweenDates)
	conversations.Get("/:userId", h.Conversations.GetUserConversations)

	// Page view models (protected)
	views := api.Group("/views", gate, middleware.ReadRateLimiter())
	views.Get("/chat", h.Views.GetChatView)
	views.Get("/channels", h.Views.GetChannelsView)

	// WebSocket route (protected)
	api.Get("/ws", gate, h.WebSocket.Upgrade, websocket.New(h.WebSocket.Handle))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", gate, h.WebSocket.Stats)
}
