package handlers

import (
	"chatroom/server/internal/middleware"
	"chatroom/server/internal/models"
	"chatroom/server/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// MessageHandler handles message CRUD HTTP requests
type MessageHandler struct {
	service service.MessageService
	log     zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{service: service, log: log}
}

// CreateMessage handles POST /messages
func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	var req models.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}

	message, err := h.service.CreateMessage(c.UserContext(), middleware.GetSession(c), &req)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create message")
	}

	return respond(c, fiber.StatusCreated, message)
}

// ListMessages handles GET /messages
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve messages")
	}

	messages, err := h.service.ListMessages(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve messages")
	}

	return respond(c, fiber.StatusOK, messages)
}

// ListChannelMessages handles GET /messages/channel/:channelId
func (h *MessageHandler) ListChannelMessages(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve messages")
	}

	messages, err := h.service.ListChannelMessages(c.UserContext(), c.Params("channelId"), page)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve messages")
	}

	return respond(c, fiber.StatusOK, messages)
}

// GetMessage handles GET /messages/:messageId
func (h *MessageHandler) GetMessage(c *fiber.Ctx) error {
	message, err := h.service.GetMessage(c.UserContext(), c.Params("messageId"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve message")
	}

	return respond(c, fiber.StatusOK, message)
}

// UpdateMessage handles PUT and PATCH /messages/:messageId
func (h *MessageHandler) UpdateMessage(c *fiber.Ctx) error {
	var req models.UpdateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}

	message, err := h.service.UpdateMessage(c.UserContext(), c.Params("messageId"), &req)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update message")
	}

	return respond(c, fiber.StatusOK, message)
}

// DeleteMessage handles DELETE /messages/:messageId
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.service.DeleteMessage(c.UserContext(), c.Params("messageId")); err != nil {
		return respondError(c, h.log, err, "Failed to delete message")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message deleted",
	})
}
