package handlers

import (
	"chatroom/server/internal/middleware"
	"chatroom/server/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ViewHandler serves the data behind the chat pages
type ViewHandler struct {
	service service.ViewService
	log     zerolog.Logger
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(service service.ViewService, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{service: service, log: log}
}

// GetChatView handles GET /views/chat
func (h *ViewHandler) GetChatView(c *fiber.Ctx) error {
	view, err := h.service.ChatView(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to load chat")
	}

	return respond(c, fiber.StatusOK, view)
}

// GetChannelsView handles GET /views/channels
func (h *ViewHandler) GetChannelsView(c *fiber.Ctx) error {
	view, err := h.service.ChannelsView(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to load channels")
	}

	return respond(c, fiber.StatusOK, view)
}
