package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopmirror/internal/api"
	"shopmirror/internal/catalog"
	"shopmirror/internal/config"
	"shopmirror/internal/database"
	"shopmirror/internal/events"
	"shopmirror/internal/logger"
	"shopmirror/internal/services/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.Env, cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// One authenticated remote client for the whole process.
	remote := shopify.NewClient(cfg, logger)
	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	store := catalog.NewStore(db.DB)
	resolver := catalog.NewInventoryResolver(remote)
	synchronizer := catalog.NewSynchronizer(remote, store, publisher, logger)
	updater := catalog.NewUpdater(remote, store, publisher, cfg.StockLockQuantity, logger)

	// Startup sync: supervised, non-fatal. A failed run leaves whatever was
	// mirrored so far and can be re-triggered via POST /api/sync.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if count, err := synchronizer.SyncAll(ctx); err != nil {
			logger.Error("startup catalog sync failed after %d products: %v", count, err)
		}
	}()

	server := api.New(cfg, logger, api.Deps{
		Store:        store,
		Resolver:     resolver,
		Updater:      updater,
		Synchronizer: synchronizer,
		Remote:       remote,
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server stopped: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}
