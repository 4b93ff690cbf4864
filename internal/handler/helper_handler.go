package handler

import (
	"strconv"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HelperHandler struct {
	helpers *service.HelperService
}

func NewHelperHandler(helpers *service.HelperService) *HelperHandler {
	return &HelperHandler{helpers: helpers}
}

// List returns helpers currently accepting requests.
// GET /api/v1/helpers?limit=50
func (h *HelperHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	helpers, err := h.helpers.ListAvailable(c.Context(), limit)
	if err != nil {
		return fail(c, err)
	}
	if helpers == nil {
		helpers = []*model.HelperProfile{}
	}
	return c.JSON(fiber.Map{"helpers": helpers})
}

// SetAvailability flips the calling helper's flag.
// PUT /api/v1/helpers/availability
func (h *HelperHandler) SetAvailability(c *fiber.Ctx) error {
	var payload model.SetAvailabilityRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.helpers.SetAvailability(c.Context(), callerID(c), payload.Available)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}
