package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Gemini API
	GeminiAPIKey string
	GeminiModel  string

	// Ingestion
	RequestInterval time.Duration // minimum delay between model calls
	PageBatchSize   int           // pages per chunk for PDF sources
	CarryOverLimit  int           // max carry-over characters threaded between chunks
	ReviewDir       string        // where review files are written before upload

	// Serve
	Port string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "data/verseforge.db"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ReviewDir:    getEnv("REVIEW_DIR", "."),
		Port:         getEnv("PORT", "5000"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.RequestInterval, err = time.ParseDuration(getEnv("REQUEST_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_INTERVAL: %w", err)
	}

	cfg.PageBatchSize, err = strconv.Atoi(getEnv("PAGE_BATCH_SIZE", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_BATCH_SIZE: %w", err)
	}

	cfg.CarryOverLimit, err = strconv.Atoi(getEnv("CARRY_OVER_LIMIT", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid CARRY_OVER_LIMIT: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForIngest checks configuration needed to run the extraction pipeline.
func (c *Config) ValidateForIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for ingestion")
	}
	if c.PageBatchSize < 1 {
		return fmt.Errorf("PAGE_BATCH_SIZE must be at least 1")
	}
	if c.RequestInterval < 0 {
		return fmt.Errorf("REQUEST_INTERVAL must not be negative")
	}
	return nil
}

// ValidateForServe checks configuration needed for the ask API.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for serving")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
