package handler

import (
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders  service.OrderService
	reports service.ReportService
}

func NewOrderHandler(orders service.OrderService, reports service.ReportService) *OrderHandler {
	return &OrderHandler{orders: orders, reports: reports}
}

// GetProducts lists every orderable product and sale unit
// GET /products
func (h *OrderHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.reports.Catalog(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// PlaceOrder handles order placement from a store
// POST /order
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.orders.PlaceOrder(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetOrders returns order history, newest first
// GET /orders?store=&start_date=&end_date=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.reports.Orders(c.UserContext(), orderQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func orderQuery(c *fiber.Ctx) service.OrderQuery {
	return service.OrderQuery{
		Store:     c.Query("store"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}
