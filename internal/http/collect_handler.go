package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"visitlens/internal/eventkeys"
	"visitlens/internal/pkg/geoip"
	"visitlens/internal/records"
)

// CollectEventParams is the tracking payload posted by the site.
type CollectEventParams struct {
	EventType string            `json:"eventType"`
	PagePath  string            `json:"pagePath"`
	SessionID string            `json:"sessionId"`
	Referrer  string            `json:"referrer"`
	Data      records.EventData `json:"data"`
}

// CollectEvent ingests one tracking event and refreshes its session row.
// Event types are stored under their canonical key so new data never adds
// to the legacy spelling spread.
func (h *Handler) CollectEvent(c *fiber.Ctx) error {
	var params CollectEventParams
	if err := c.BodyParser(&params); err != nil {
		h.logger.Debug("Rejected malformed collect payload", slog.Any("error", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if params.EventType == "" || params.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "eventType and sessionId are required",
		})
	}

	now := time.Now().UTC()
	ctx := c.UserContext()

	event := &records.Event{
		ID:        uuid.NewString(),
		CreatedAt: now,
		EventType: eventkeys.CanonicalKey(params.EventType),
		PagePath:  params.PagePath,
		SessionID: params.SessionID,
		Data:      params.Data,
	}
	if err := h.writer.SaveEvent(ctx, event); err != nil {
		return h.serverError(c, "Failed to store event", err)
	}

	country, city := geoip.Locate(clientIP(c))
	session := &records.Session{
		SessionID:    params.SessionID,
		DeviceType:   orUnknown(params.Data.Device),
		Browser:      orUnknown(params.Data.Browser),
		Country:      country,
		City:         city,
		Referrer:     params.Referrer,
		FirstVisitAt: now,
	}
	if err := h.writer.UpsertSession(ctx, session); err != nil {
		return h.serverError(c, "Failed to store session", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"id":     event.ID,
	})
}

// clientIP prefers the first forwarded address when the app sits behind a
// proxy.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return c.IP()
}

func orUnknown(value string) string {
	if value == "" {
		return records.Unknown
	}
	return value
}
