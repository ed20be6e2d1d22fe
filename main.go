package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lariosa/stockroom-be/internal/api"
	"github.com/lariosa/stockroom-be/internal/auth"
	"github.com/lariosa/stockroom-be/internal/config"
	"github.com/lariosa/stockroom-be/internal/database"
	"github.com/lariosa/stockroom-be/internal/logger"
	"github.com/lariosa/stockroom-be/internal/monitoring"
	"github.com/lariosa/stockroom-be/internal/services"
	"github.com/lariosa/stockroom-be/internal/websocket"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the event hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	authenticator := auth.NewAuthenticator(cfg.JWTSecret)
	userService := services.NewUserService(db)
	inventoryService := services.NewInventoryService(db)
	productService := services.NewProductService(db, inventoryService, hub)
	importService := services.NewImportService(db)

	// Set up and run the background low-stock watcher
	watcher, err := monitoring.NewLowStockWatcher(productService, hub, cfg.LowStockCron, int64(cfg.LowStockThreshold))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid low-stock schedule")
	}
	go watcher.Run()

	// Set up router
	router := api.NewRouter(authenticator, hub, userService, productService, inventoryService, importService, cfg.UploadDir)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
