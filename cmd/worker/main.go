package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"shopmirror/internal/catalog"
	"shopmirror/internal/config"
	"shopmirror/internal/database"
	"shopmirror/internal/events"
	"shopmirror/internal/logger"
	"shopmirror/internal/services/shopify"
	"shopmirror/internal/worker"
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

	remote := shopify.NewClient(cfg, logger)
	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	store := catalog.NewStore(db.DB)
	synchronizer := catalog.NewSynchronizer(remote, store, publisher, logger)

	// Initialize worker
	w := worker.New(cfg, logger, synchronizer)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	w.Stop()
}
