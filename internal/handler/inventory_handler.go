package handler

import (
	"go-store-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	catalog   service.CatalogService
	inventory service.InventoryService
	reports   service.ReportService
}

func NewInventoryHandler(catalog service.CatalogService, inventory service.InventoryService, reports service.ReportService) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, inventory: inventory, reports: reports}
}

// GET /admin/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.reports.AdminProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// POST /admin/products/create
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.catalog.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// PUT /admin/products/:id/toggle
func (h *InventoryHandler) ToggleProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	res, err := h.catalog.ToggleProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GET /admin/products/:id/units
func (h *InventoryHandler) GetUnits(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	units, err := h.catalog.ListUnits(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(units)
}

// POST /admin/units/create
func (h *InventoryHandler) CreateUnit(c *fiber.Ctx) error {
	var req service.CreateUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.catalog.CreateUnit(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// DELETE /admin/units/:id
func (h *InventoryHandler) DeleteUnit(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid unit ID")
	}

	res, err := h.catalog.DeleteUnit(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Restock records a signed stock movement outside the order flow
// POST /restock
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.inventory.Restock(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GET /admin/inventory_logs?start_date=&end_date=
func (h *InventoryHandler) GetInventoryLogs(c *fiber.Ctx) error {
	logs, err := h.reports.InventoryLogs(c.UserContext(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}

// GET /admin/product_logs?limit=
func (h *InventoryHandler) GetProductLogs(c *fiber.Ctx) error {
	logs, err := h.reports.ProductLogs(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}
