package handlers

import (
	"time"

	"chatroom/server/internal/common"
	"chatroom/server/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// ConversationHandler handles conversation query HTTP requests
type ConversationHandler struct {
	service service.ConversationService
	log     zerolog.Logger
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(service service.ConversationService, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{service: service, log: log}
}

// GetUserConversations handles GET /conversations/:userId
func (h *ConversationHandler) GetUserConversations(c *fiber.Ctx) error {
	messages, err := h.service.UserConversations(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve user conversations")
	}

	return respond(c, fiber.StatusOK, messages)
}

// GetConversationsBetweenDates handles GET /conversations?startDate=&endDate=
func (h *ConversationHandler) GetConversationsBetweenDates(c *fiber.Ctx) error {
	start, err := parseBound(c.Query("startDate"), "startDate", false)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve conversations")
	}

	end, err := parseBound(c.Query("endDate"), "endDate", true)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve conversations")
	}

	messages, err := h.service.ConversationsBetween(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, h.log, err, "Failed to retrieve conversations")
	}

	return respond(c, fiber.StatusOK, messages)
}

// parseBound accepts an RFC 3339 timestamp or a YYYY-MM-DD date. A date
// used as an upper bound covers the whole day.
func parseBound(raw, field string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, common.NewValidationError(field, "is required")
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}

	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, common.NewValidationError(field, "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
