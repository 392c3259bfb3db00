package main

import (
	"context"
	"log"

	"github.com/ISanaSaki/inventory-api/config"
	"github.com/ISanaSaki/inventory-api/db"
	"github.com/ISanaSaki/inventory-api/internal/audit"
	"github.com/ISanaSaki/inventory-api/internal/auth/handler"
	repo "github.com/ISanaSaki/inventory-api/internal/auth/repository/postgres"
	"github.com/ISanaSaki/inventory-api/internal/auth/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	auditService := audit.NewService(dbPool)
	tokenService := service.NewTokenService(cfg)
	userService := service.NewUserService(userRepo, tokenService, auditService, cfg)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	app.Use(logger.New())
	handler.RegisterRoutes(app, authHandler)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
