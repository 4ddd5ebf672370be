package handlers

import (
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/handlers/ws"
	"github.com/gofiber/fiber/v2"
)

const version = "1.0.0"

type StatusHandler struct {
	hub *ws.Hub
}

func NewStatusHandler(hub *ws.Hub) *StatusHandler {
	return &StatusHandler{hub: hub}
}

// GetStatus reports service health and identity. No auth; game clients
// probe this before authenticating.
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "online",
		"version":           version,
		"activeConnections": h.hub.Count(),
		"timestamp":         time.Now().UTC(),
	})
}
