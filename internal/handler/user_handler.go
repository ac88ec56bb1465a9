package handler

import (
	applog "go-store-orders/internal/log"
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles store account creation
// POST /create_user
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.userService.CreateUser(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "user.create", map[string]any{"user_id": res.ID})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetUsers returns all store accounts
// GET /users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// PUT /users/:id/toggle
func (h *UserHandler) ToggleUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	res, err := h.userService.ToggleUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "user.toggle", map[string]any{"user_id": id, "is_active": *res.IsActive})
	return c.JSON(res)
}

// PUT /users/:id/reset_password
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	res, err := h.userService.ResetPassword(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "user.reset_password", map[string]any{"user_id": id})
	return c.JSON(res)
}

// ChangePassword lets a store replace its password; it clears the forced-reset flag
// POST /change_password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.userService.ChangePassword(c.UserContext(), &req)
	if err != nil {
		applog.Security(c, "user.change_password.failed", map[string]any{"username": req.Username})
		return respondError(c, err)
	}
	return c.JSON(res)
}
