package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhub-dev/eventhub/internal/status"
)

// APIMessage greets callers of the status endpoint.
const APIMessage = "EventHub API"

// StatusHandler reports database connectivity.
type StatusHandler struct {
	tracker *status.Tracker
}

// NewStatusHandler constructs handler.
func NewStatusHandler(tracker *status.Tracker) *StatusHandler {
	return &StatusHandler{tracker: tracker}
}

// Root handles GET /.
func (h *StatusHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": APIMessage,
		"databases": fiber.Map{
			status.MongoDB:    h.tracker.Get(status.MongoDB),
			status.PostgreSQL: h.tracker.Get(status.PostgreSQL),
			status.Redis:      h.tracker.Get(status.Redis),
		},
	})
}
