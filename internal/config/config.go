// Package config provides configuration loading from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// CORS
	AllowedOrigins []string

	// Storage
	Store        string // "sqlite" or "memory"
	DataDir      string
	ArtifactsDir string
	ScratchDir   string

	// Worker pool
	MaxWorkers   int
	MaxQueueSize int

	// Pipeline
	StepDelay  time.Duration
	JobTimeout time.Duration

	// Metadata cache
	MetadataCacheTTL time.Duration

	// Scratch cleanup
	CleanupInterval time.Duration
	ScratchMaxAge   time.Duration

	// R2 artifact storage (optional)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

// Load loads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		Store:        getEnv("STORE", "sqlite"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		ArtifactsDir: getEnv("ARTIFACTS_DIR", "./artifacts"),
		ScratchDir:   getEnv("SCRATCH_DIR", "./tmp"),

		MaxWorkers:   getEnvInt("MAX_WORKERS", 3),
		MaxQueueSize: getEnvInt("MAX_QUEUE_SIZE", 10),

		StepDelay:  getEnvDuration("STEP_DELAY", time.Second),
		JobTimeout: getEnvDuration("JOB_TIMEOUT", 2*time.Minute),

		MetadataCacheTTL: getEnvDuration("METADATA_CACHE_TTL", time.Hour),

		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 5*time.Minute),
		ScratchMaxAge:   getEnvDuration("SCRATCH_MAX_AGE", 30*time.Minute),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
