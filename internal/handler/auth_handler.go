package handler

import (
	applog "go-store-orders/internal/log"
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles store login. No token is issued; the store client keeps the returned user.
// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.StoreLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.authService.StoreLogin(c.UserContext(), &req)
	if err != nil {
		applog.Security(c, "auth.store.failed", map[string]any{"username": req.Username})
		return respondError(c, err)
	}
	applog.Info(c, "auth.store.login", map[string]any{"user_id": res.User.ID})
	return c.JSON(res)
}

// AdminLogin takes an OAuth2 password form and returns a bearer token
// POST /admin/login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	res, err := h.authService.AdminLogin(c.UserContext(), username, password)
	if err != nil {
		applog.Security(c, "auth.admin.failed", map[string]any{"username": username})
		if statusFor(err) == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return respondError(c, err)
	}
	applog.Info(c, "auth.admin.login", map[string]any{"username": username})
	return c.JSON(res)
}
