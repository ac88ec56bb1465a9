package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go-store-orders/internal/config"
	"go-store-orders/internal/repository"
	"go-store-orders/internal/seed"
	"go-store-orders/internal/service"
	"go-store-orders/internal/ws"
	"go-store-orders/pkg/database"
)

type logPublisher struct{}

func (logPublisher) Publish(ev ws.Event) {
	log.Printf("%s: %s", ev.Type, ev.Message)
}

func main() {
	file := flag.String("file", "catalog.yaml", "YAML catalog to load")
	flag.Parse()

	// 1. Load config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Read catalog
	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	cat, err := seed.Load(f)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	// 3. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 4. Create products
	catalog := service.NewCatalogService(repository.NewProductRepo(), repository.NewAuditRepo(), db, logPublisher{}, cfg.Database.Timeout)
	sum, err := seed.Apply(context.Background(), catalog, cat)
	if err != nil {
		log.Fatalf("Seed failed after %d product(s): %v", sum.Created, err)
	}

	log.Printf("Seed finished: %d created, %d already present", sum.Created, sum.Skipped)
}
