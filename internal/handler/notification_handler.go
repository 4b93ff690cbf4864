package handler

import (
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListUnread returns the caller's unread notifications, newest first.
// GET /api/v1/notifications/unread
func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	notes, err := h.notifications.ListUnread(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	if notes == nil {
		notes = []*model.Notification{}
	}
	return c.JSON(fiber.Map{"notifications": notes})
}

// MarkRead acknowledges one notification.
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	note, err := h.notifications.MarkRead(c.Context(), c.Params("id"), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(note)
}
