package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"thrift-market/config"
	_ "thrift-market/docs"
	"thrift-market/logger"
	"thrift-market/middleware"
	"thrift-market/routes"
	"thrift-market/services"
)

// @title Thrift Market API
// @version 1.0
// @description Second-hand marketplace backend: listings, carts and orders.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()
	logger.Setup(cfg.AppEnv)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx := context.Background()

	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := config.RunMigrations(cfg); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	rdb := config.ConnectRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	email, err := services.NewEmailService(cfg)
	if err != nil {
		slog.Warn("Mail disabled", "reason", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		slog.Error("Failed to create upload directory", "error", err)
		os.Exit(1)
	}

	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORSMiddleware())

	otpService := routes.SetupRoutes(router, cfg, db, rdb, email)
	otpService.StartSweeper(ctx, cfg.OTPSweepInterval)

	slog.Info("Server starting", "port", cfg.Port, "env", cfg.AppEnv)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
