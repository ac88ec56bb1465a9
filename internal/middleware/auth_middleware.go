package middleware

import (
	"strings"

	applog "go-store-orders/internal/log"
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin validates the bearer token and that its admin still exists.
// Websocket clients cannot set headers from browsers, so a ?token= query parameter is accepted on upgrades.
func RequireAdmin(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "Missing authorization token")
		}

		admin, err := auth.AuthenticateAdmin(c.UserContext(), token)
		if err != nil {
			applog.Security(c, "auth.admin.rejected", map[string]any{"reason": err.Error()})
			return unauthorized(c, "Could not validate credentials")
		}

		// Set admin info in context for downstream handlers
		c.Locals(applog.AdminIDKey, admin.ID)
		c.Locals(applog.AdminUsernameKey, admin.Username)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if strings.EqualFold(c.Get(fiber.HeaderUpgrade), "websocket") {
		if token := c.Query("token"); token != "" {
			return token, true
		}
	}
	return "", false
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "error": msg})
}
