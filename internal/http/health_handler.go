package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
}

// Health handles the health check endpoint
func (h *Handler) Health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "ok"

		if db == nil {
			dbStatus = "error"
			h.logger.Error("Database connection unavailable")
		} else if sqlDB, err := db.DB(); err != nil {
			dbStatus = "error"
			h.logger.Error("Database connection error", slog.Any("error", err))
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
			h.logger.Error("Database ping failed", slog.Any("error", err))
		}

		health := HealthStatus{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
			DBStatus:  dbStatus,
		}
		if dbStatus != "ok" {
			health.Status = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(health)
		}
		return c.JSON(health)
	}
}
