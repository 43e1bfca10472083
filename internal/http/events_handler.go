package http

import (
	"github.com/gofiber/fiber/v2"
)

// GetEventDetails serves the drill-down view for one logical event label.
// The label is matched against every historical spelling of the event type.
func (h *Handler) GetEventDetails(c *fiber.Ctx) error {
	label := c.Query("event")
	if label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing event query parameter",
		})
	}

	details, err := h.engine.EventDetails(c.UserContext(), label, rangeToken(c))
	if err != nil {
		return h.serverError(c, "Failed to compute event details", err)
	}
	return c.JSON(details)
}
