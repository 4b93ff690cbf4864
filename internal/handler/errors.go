package handler

import (
	"errors"
	"log"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

// fail maps service errors onto the HTTP status taxonomy: absent entity
// 404, authenticated-but-not-authorized 403, state already past the
// attempted transition 409, malformed input 400, helper offline 503,
// anything else 500.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrHelperNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrNotRequestAddressee),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotRecipient),
		errors.Is(err, service.ErrNotHelper):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrAlreadyAnswered),
		errors.Is(err, service.ErrSessionClosed):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageTooLong):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrHelperUnavailable):
		return c.Status(503).JSON(fiber.Map{"error": err.Error()})

	default:
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(500).JSON(fiber.Map{"error": "internal error"})
	}
}

// callerID reads the authenticated identity set by the auth middleware.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
