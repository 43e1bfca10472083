// Package http exposes the aggregation engine over a JSON API.
package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"visitlens/internal/analytics"
	"visitlens/internal/config"
	"visitlens/internal/records"
	"visitlens/internal/timewindow"
)

// Handler bundles the dependencies the API handlers share.
type Handler struct {
	engine *analytics.Engine
	writer records.Writer
	logger *slog.Logger
	cfg    *config.Config
}

func NewHandler(engine *analytics.Engine, writer records.Writer, logger *slog.Logger, cfg *config.Config) *Handler {
	return &Handler{
		engine: engine,
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// rangeToken reads the time-range token from the query string. Unknown
// tokens are passed through; the resolver falls back to the 7d default.
func rangeToken(c *fiber.Ctx) timewindow.Token {
	raw := c.Query("range", string(timewindow.DefaultToken))
	return timewindow.Token(raw)
}

func (h *Handler) serverError(c *fiber.Ctx, msg string, err error) error {
	h.logger.Error(msg, slog.Any("error", err), slog.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}
