package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-store-orders/internal/cache"
	"go-store-orders/internal/config"
	"go-store-orders/internal/server"
	"go-store-orders/pkg/database"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// 1. Load config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Shared limiter storage, in memory when Redis is not configured
	var storage fiber.Storage
	if cfg.Redis.Addr != "" {
		rs := cache.NewRedisStorage(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "store-orders:")
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to reach redis at %s: %v", cfg.Redis.Addr, err)
		}
		defer rs.Close()
		storage = rs
	}

	// 4. Wiring
	srv, err := server.New(cfg, db, storage)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	// 5. Bootstrap admin
	if cfg.Auth.AdminUsername != "" {
		created, err := srv.Auth.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			log.Fatalf("Failed to bootstrap admin: %v", err)
		}
		if created {
			log.Printf("Admin user %q created", cfg.Auth.AdminUsername)
		}
	}

	// 6. Setup WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go srv.Hub.Run(ctx)

	// 7. Graceful Shutdown
	go func() {
		if err := srv.App.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()
	if err := srv.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Println("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
