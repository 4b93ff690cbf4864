package handler

import (
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ListSessions returns the caller's sessions, most recent activity first.
// GET /api/v1/chat/sessions
func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	summaries, err := h.chat.ListSessions(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	if summaries == nil {
		summaries = []*model.SessionSummary{}
	}
	return c.JSON(fiber.Map{"sessions": summaries})
}

// GetSession returns the caller's view of one session.
// GET /api/v1/chat/sessions/:id
func (h *ChatHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.chat.GetSession(c.Context(), c.Params("id"), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

// GetSessionByRequest resolves the session opened for an accepted request.
// GET /api/v1/chat/sessions/by-request/:requestId
func (h *ChatHandler) GetSessionByRequest(c *fiber.Ctx) error {
	view, err := h.chat.GetSessionByRequest(c.Context(), c.Params("requestId"), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

// SendMessage appends to the session log.
// POST /api/v1/chat/sessions/:id/messages
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var payload model.SendMessagePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	msg, err := h.chat.AppendMessage(c.Context(), c.Params("id"), callerID(c), payload.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(msg)
}

// CloseSession ends a conversation for good.
// POST /api/v1/chat/sessions/:id/close
func (h *ChatHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.chat.CloseSession(c.Context(), c.Params("id"), callerID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
