package handler

import (
	"errors"
	"strconv"

	applog "go-store-orders/internal/log"
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service error kinds to HTTP statuses. Internal causes are logged, never returned.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":        "error",
			"error":         stockErr.Error(),
			"current_stock": stockErr.Current,
			"base_unit":     stockErr.BaseUnit,
		})
	}

	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		cause := err
		var se *service.Error
		if errors.As(err, &se) && se.Cause != nil {
			cause = se.Cause
		}
		applog.Error(c, "request.failed", cause, nil)
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"status": "error", "error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "error": msg})
}

// Helper untuk parse numeric path ids
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ErrorHandler renders framework errors (unknown routes, body limits, panics) in the API's error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		applog.Error(c, "request.unhandled", err, nil)
	}
	return c.Status(code).JSON(fiber.Map{"status": "error", "error": msg})
}
