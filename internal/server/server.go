// Package server wires repositories, services and handlers into a fiber app.
package server

import (
	"go-store-orders/internal/config"
	"go-store-orders/internal/handler"
	"go-store-orders/internal/middleware"
	"go-store-orders/internal/repository"
	"go-store-orders/internal/service"
	"go-store-orders/internal/ws"
	"go-store-orders/pkg/database"
	"go-store-orders/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Server struct {
	App  *fiber.App
	Hub  *ws.Hub
	Auth service.AuthService
}

// New builds the HTTP application. A nil storage keeps login rate-limit counters in memory.
func New(cfg *config.Config, db *gorm.DB, storage fiber.Storage) (*Server, error) {
	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	reader, err := database.NewSQLX(db, cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub()
	timeout := cfg.Database.Timeout

	// Dependency Injection
	productRepo := repository.NewProductRepo()
	orderRepo := repository.NewOrderRepo()
	storeRepo := repository.NewStoreUserRepo()
	adminRepo := repository.NewAdminRepo()
	auditRepo := repository.NewAuditRepo()
	reportRepo := repository.NewReportRepo(reader)

	orderService := service.NewOrderService(productRepo, orderRepo, db, timeout)
	catalogService := service.NewCatalogService(productRepo, auditRepo, db, hub, timeout)
	invService := service.NewInventoryService(productRepo, auditRepo, db, hub, timeout)
	userService := service.NewUserService(storeRepo, db, cfg.Auth.DefaultStorePassword, timeout)
	authService := service.NewAuthService(storeRepo, adminRepo, tokens, db, timeout)
	reportService := service.NewReportService(reportRepo, timeout)
	dashService := service.NewDashboardService(reportRepo, cfg.Inventory.LowStockThreshold, cfg.Inventory.TrendDays, timeout)

	orderHandler := handler.NewOrderHandler(orderService, reportService)
	invHandler := handler.NewInventoryHandler(catalogService, invService, reportService)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	dashHandler := handler.NewDashboardHandler(dashService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New())

	// ============ PUBLIC ROUTES ============
	app.Get("/health", handler.Health(func(c *fiber.Ctx) error {
		return database.Ping(c.UserContext(), db)
	}))
	app.Get("/products", orderHandler.GetProducts)
	app.Post("/order", orderHandler.PlaceOrder)
	app.Post("/change_password", userHandler.ChangePassword)

	loginLimit := middleware.LoginLimiter(cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow, storage)
	app.Post("/login", loginLimit, authHandler.Login)
	app.Post("/admin/login", loginLimit, authHandler.AdminLogin)

	// ============ PROTECTED ROUTES ============
	// Each route below requires an admin bearer token
	admin := middleware.RequireAdmin(authService)

	app.Get("/orders", admin, orderHandler.GetOrders)
	app.Get("/admin/orders/export", admin, orderHandler.ExportOrders)

	app.Post("/create_user", admin, userHandler.CreateUser)
	app.Get("/users", admin, userHandler.GetUsers)
	app.Put("/users/:id/toggle", admin, userHandler.ToggleUser)
	app.Put("/users/:id/reset_password", admin, userHandler.ResetPassword)

	app.Get("/admin/products", admin, invHandler.GetProducts)
	app.Post("/admin/products/create", admin, invHandler.CreateProduct)
	app.Put("/admin/products/:id/toggle", admin, invHandler.ToggleProduct)
	app.Get("/admin/products/:id/units", admin, invHandler.GetUnits)
	app.Post("/admin/units/create", admin, invHandler.CreateUnit)
	app.Delete("/admin/units/:id", admin, invHandler.DeleteUnit)
	app.Post("/restock", admin, invHandler.Restock)
	app.Get("/admin/inventory_logs", admin, invHandler.GetInventoryLogs)
	app.Get("/admin/product_logs", admin, invHandler.GetProductLogs)

	app.Get("/admin/dashboard_stats", admin, dashHandler.GetDashboardStats)

	// WebSocket Route
	app.Get("/admin/ws", admin, handler.UpgradeOnly, handler.AuditFeed(hub))

	return &Server{App: app, Hub: hub, Auth: authService}, nil
}
