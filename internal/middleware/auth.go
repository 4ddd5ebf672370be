package middleware

import (
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/auth"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/httpx"
	"github.com/gofiber/fiber/v2"
)

// APIKeyRequired rejects requests that do not carry the shared secret in
// the X-API-Key header or the apiKey query parameter. Rejection happens
// before any store access.
func APIKeyRequired(gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			key = c.Query("apiKey")
		}

		if !gate.Authenticate(key) {
			return httpx.Unauthorized(c, "API key inválida ou ausente")
		}

		return c.Next()
	}
}
