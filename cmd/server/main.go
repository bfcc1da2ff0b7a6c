package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "stockledger/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"stockledger/internal/auth"
	"stockledger/internal/cache"
	"stockledger/internal/config"
	"stockledger/internal/db"
	"stockledger/internal/handler"
	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/internal/router"
	"stockledger/internal/service"
)

const sessionSweepInterval = time.Hour

// @title Stock Ledger API
// @version 1.0
// @description Shared product-quantity ledger behind a two-factor login (password + shared access token).
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	if cfg.AccessToken == "" {
		// Fail closed: logins will be rejected until the secret is set.
		log.Println("WARNING: ACCESS_TOKEN is not set; every login attempt will be rejected")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Product{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth components
	sessions := auth.NewSessionStore(auth.SessionTTL)
	signer := auth.NewCookieSigner(cfg.SessionSecret)
	throttle := auth.NewLoginThrottle(cacheClient)

	// Expired sessions stay invalid without the sweep; it only frees memory.
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			sessions.Sweep()
		}
	}()

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions, signer, throttle, cfg.AccessToken)
	inventoryService := service.NewInventoryService(productRepo)

	// First-run seeding, guarded by an emptiness check
	if seeded, err := inventoryService.SeedIfEmpty(context.Background()); err != nil {
		log.Fatalf("seed inventory: %v", err)
	} else if seeded {
		log.Println("Seeded first-run inventory")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	// Register routes
	router.Register(e, authService, authHandler, inventoryHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
