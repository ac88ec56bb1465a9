package handler

import (
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns monthly KPIs, the daily trend and top products/stores
// Query params: month (YYYY-MM, default current month in UTC+8)
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext(), c.Query("month"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
