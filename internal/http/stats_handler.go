package http

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats serves the composite dashboard aggregation for a range token.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.engine.DashboardStats(c.UserContext(), rangeToken(c))
	if err != nil {
		return h.serverError(c, "Failed to compute dashboard stats", err)
	}
	return c.JSON(stats)
}
