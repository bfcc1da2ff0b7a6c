package main

import (
	"context"
	"log"

	"stockledger/internal/config"
	"stockledger/internal/db"
	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/internal/service"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	inventoryService := service.NewInventoryService(repository.NewProductRepository(gormDB))

	seeded, err := inventoryService.SeedIfEmpty(context.Background())
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	if seeded {
		log.Println("Seed completed successfully: first-run inventory created")
	} else {
		log.Println("Products table is not empty, nothing to do")
	}
}
