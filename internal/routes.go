package internal

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"visitlens/internal/analytics"
	"visitlens/internal/config"
	"visitlens/internal/http"
	"visitlens/internal/http/middleware"
	"visitlens/internal/records"
)

// publicCORSConfig is shared by the endpoints the tracking script and the
// dashboard call cross-origin.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept",
}

// MountRoutes wires the JSON API onto the Fiber app.
func MountRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *slog.Logger) {
	store := records.NewGormStore(db)
	engine := analytics.NewEngine(store, logger,
		analytics.WithTopLimit(cfg.TopStatsLimit),
		analytics.WithRecentLimit(cfg.RecentActivityLimit))
	handler := http.NewHandler(engine, store, logger, cfg)

	app.Use(middleware.RequestLogger(logger))

	app.Get("/health", handler.Health(db))

	api := app.Group("/api/v1", cors.New(publicCORSConfig))
	api.Get("/stats", handler.GetStats)
	api.Get("/events/details", handler.GetEventDetails)
	api.Get("/referrers", handler.GetReferrerStats)
	api.Post("/collect", handler.CollectEvent)
}
