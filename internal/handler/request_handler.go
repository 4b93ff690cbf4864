package handler

import (
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	requests *service.RequestService
}

func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// Create starts the handshake toward a helper.
// POST /api/v1/chat/requests
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var payload model.CreateRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if payload.HelperID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "helper_id is required"})
	}

	req, err := h.requests.Create(c.Context(), callerID(c), payload.HelperID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(req)
}

// ListPending returns the calling helper's open inbox.
// GET /api/v1/chat/requests/pending
func (h *RequestHandler) ListPending(c *fiber.Ctx) error {
	reqs, err := h.requests.ListPending(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	if reqs == nil {
		reqs = []*model.ChatRequest{}
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

// Respond answers a pending request.
// POST /api/v1/chat/requests/:id/respond
func (h *RequestHandler) Respond(c *fiber.Ctx) error {
	var payload model.RespondPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	req, session, err := h.requests.Respond(c.Context(), c.Params("id"), callerID(c), payload.Decision)
	if err != nil {
		return fail(c, err)
	}

	resp := fiber.Map{"request": req}
	if session != nil {
		resp["session"] = session
	}
	return c.JSON(resp)
}
