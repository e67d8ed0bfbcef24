package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/basket-service/basket_service/internal/api/routes"
	"github.com/basket-service/basket_service/internal/infrastructure/config"
	"github.com/basket-service/basket_service/internal/infrastructure/di"
	"github.com/basket-service/basket_service/pkg/logger"
	"github.com/basket-service/basket_service/pkg/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer func() { _ = log.Sync() }()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := di.NewContainer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create DI container", "error", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Warnw("Error closing container", "error", err)
		}
	}()

	router := routes.SetupRoutes(container)

	if err := container.CacheWarmer.Start(); err != nil {
		log.Fatal("Failed to start cache warm scheduler", "error", err)
	}
	log.Info("Cache warm scheduler started")

	server := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        router,
		ReadTimeout:    config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout:   config.Duration(cfg.Server.WriteTimeout),
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Infow("Starting server",
			"addr", server.Addr,
			"environment", cfg.Environment,
			"version", version.Get().String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if err := container.CacheWarmer.Stop(); err != nil {
		log.Warnw("Error stopping cache warm scheduler", "error", err)
	}

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
