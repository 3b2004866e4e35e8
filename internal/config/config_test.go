package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "data/verseforge.db", cfg.DatabasePath)
		assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
		assert.Equal(t, time.Second, cfg.RequestInterval)
		assert.Equal(t, 3, cfg.PageBatchSize)
		assert.Equal(t, 500, cfg.CarryOverLimit)
		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DATABASE_PATH", "/custom/path.db")
		os.Setenv("GEMINI_API_KEY", "test-key")
		os.Setenv("REQUEST_INTERVAL", "5s")
		os.Setenv("PAGE_BATCH_SIZE", "5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/path.db", cfg.DatabasePath)
		assert.Equal(t, "test-key", cfg.GeminiAPIKey)
		assert.Equal(t, 5*time.Second, cfg.RequestInterval)
		assert.Equal(t, 5, cfg.PageBatchSize)
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("REQUEST_INTERVAL", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_INTERVAL")
	})

	t.Run("invalid integer", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("PAGE_BATCH_SIZE", "notanumber")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "PAGE_BATCH_SIZE")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_PATH")
	})
}

func TestConfig_ValidateForIngest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:    "test.db",
			GeminiAPIKey:    "key",
			PageBatchSize:   3,
			RequestInterval: time.Second,
		}
		assert.NoError(t, cfg.ValidateForIngest())
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db", PageBatchSize: 3}
		err := cfg.ValidateForIngest()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("zero batch size", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db", GeminiAPIKey: "key"}
		err := cfg.ValidateForIngest()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "PAGE_BATCH_SIZE")
	})
}

func TestConfig_ValidateForServe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db", GeminiAPIKey: "key", Port: "5000"}
		assert.NoError(t, cfg.ValidateForServe())
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db", Port: "5000"}
		err := cfg.ValidateForServe()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})
}
