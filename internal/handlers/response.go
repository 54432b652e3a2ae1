package handlers

import (
	"errors"
	"strconv"

	"chatroom/server/internal/common"
	"chatroom/server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// respondError maps service errors to a status code. Store failures are
// logged and answered with fallback so the cause never reaches the client.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, fallback string) error {
	var vErr *common.ValidationError
	switch {
	case errors.Is(err, common.ErrMessageNotFound):
		return respondFailure(c, fiber.StatusNotFound, "Message not found")
	case errors.Is(err, common.ErrUserNotFound):
		return respondFailure(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrNotFound):
		return respondFailure(c, fiber.StatusNotFound, "Not found")
	case errors.As(err, &vErr):
		return respondFailure(c, fiber.StatusBadRequest, vErr.Error())
	case errors.Is(err, common.ErrValidation):
		return respondFailure(c, fiber.StatusBadRequest, err.Error())
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(fallback)
	return respondFailure(c, fiber.StatusInternalServerError, fallback)
}

// parsePage reads optional limit and offset query parameters
func parsePage(c *fiber.Ctx) (models.Page, error) {
	var page models.Page

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return page, common.NewValidationError("limit", "must be a positive integer")
		}
		page.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return page, common.NewValidationError("offset", "must be a non-negative integer")
		}
		page.Offset = offset
	}

	return page, nil
}
