package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort        int
	DatabasePath      string
	JWTSecret         string
	UploadDir         string // Where multipart uploads are staged before import
	LowStockThreshold int
	LowStockCron      string
}

// Load loads configuration from environment variables or sets defaults.
// JWT_SECRET has no usable default and must be present.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "5000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	thresholdStr := getEnv("LOW_STOCK_THRESHOLD", "5")
	threshold, err := strconv.Atoi(thresholdStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:        port,
		DatabasePath:      getEnv("DATABASE_PATH", "./inventory.db"),
		JWTSecret:         secret,
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		LowStockThreshold: threshold,
		LowStockCron:      getEnv("LOW_STOCK_CRON", "*/15 * * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
