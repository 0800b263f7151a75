package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env       string
	Port      string
	JWTSecret string
	LogLevel  string
	BaseURL   string
	UploadDir string
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Gemini    GeminiConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// SchedulerConfig holds scheduled-job engine configuration
type SchedulerConfig struct {
	Enabled      bool
	ScanInterval int // seconds between due-job scans
	PoolSize     int
}

// GeminiConfig holds the optional AI analysis configuration
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		BaseURL:   getEnv("BASE_URL", "http://localhost:3210"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "meridian"),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getEnv("SCHEDULER_ENABLED", "true") == "true",
			ScanInterval: getEnvInt("SCHEDULER_SCAN_INTERVAL", 30),
			PoolSize:     getEnvInt("SCHEDULER_POOL_SIZE", 4),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
