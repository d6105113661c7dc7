package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Shopify admin API. Authentication is a private-app credential pair
	// (API key + password) sent as HTTP basic auth on every call.
	ShopifyShopDomain  string
	ShopifyAPIKey      string
	ShopifyAPIPassword string
	ShopifyAPIVersion  string

	// Inventory location all stock reads and writes are issued against.
	// Empty means inventory operations are unavailable.
	ShopifyLocationID int64

	// Quantity a variant's stock is forced to after a price update.
	StockLockQuantity int

	// Interval between worker-driven catalog re-syncs.
	SyncInterval time.Duration

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", "sqlite://shopmirror.db"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:            getEnv("API_PORT", "8080"),
		APIHost:            getEnv("API_HOST", "0.0.0.0"),
		ShopifyShopDomain:  getEnv("SHOPIFY_SHOP_DOMAIN", ""),
		ShopifyAPIKey:      getEnv("SHOPIFY_API_KEY", ""),
		ShopifyAPIPassword: getEnv("SHOPIFY_API_PASSWORD", ""),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2023-10"),
		ShopifyLocationID:  getEnvAsInt64("SHOPIFY_LOCATION_ID", 0),
		StockLockQuantity:  getEnvAsInt("STOCK_LOCK_QUANTITY", 1),
		SyncInterval:       getEnvAsDuration("SYNC_INTERVAL", time.Hour),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
