package main

import (
	"context"
	"flag"
	"log"

	"go-store-orders/internal/config"
	"go-store-orders/internal/repository"
	"go-store-orders/internal/service"
	"go-store-orders/pkg/database"
	"go-store-orders/pkg/jwt"
)

func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "new password (at least 8 characters)")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		log.Fatal("username and password are required")
	}

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

	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Invalid JWT secret: %v", err)
	}
	auth := service.NewAuthService(repository.NewStoreUserRepo(), repository.NewAdminRepo(), tokens, db, cfg.Database.Timeout)

	// 3. Reset
	if err := auth.ResetAdminPassword(context.Background(), *username, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *username, err)
	}

	log.Printf("Password for %s has been reset", *username)
}
