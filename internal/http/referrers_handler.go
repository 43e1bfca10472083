package http

import (
	"github.com/gofiber/fiber/v2"
)

// GetReferrerStats serves the traffic-source breakdown, computed over
// first-visit sessions only.
func (h *Handler) GetReferrerStats(c *fiber.Ctx) error {
	summary, err := h.engine.ReferrerStats(c.UserContext(), rangeToken(c))
	if err != nil {
		return h.serverError(c, "Failed to compute referrer stats", err)
	}
	return c.JSON(summary)
}
