// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, fallback providers, rate limits, and data paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	ResolveTimeout  time.Duration // Upper bound for a single query resolution

	// Data Configuration
	DataDir           string // Data directory for the SQLite query log
	KnowledgeBasePath string // Optional override for the embedded campus dataset

	// Fallback LLM Configuration
	LLMEnabled          bool   // Master switch for the generative fallback
	GeminiAPIKey        string // Gemini API key
	GroqAPIKey          string // Groq API key (OpenAI-compatible provider)
	GeminiModels        string // Comma-separated Gemini model chain (empty = defaults)
	GroqModels          string // Comma-separated Groq model chain (empty = defaults)
	LLMPrimaryProvider  string // "gemini" or "groq" (default: "gemini")
	LLMFallbackProvider string // "gemini" or "groq" (default: "groq")
	LLMRetryMaxAttempts int    // Retry attempts for transient provider failures

	// Rate Limits (Token Bucket Algorithm)
	ChatRateLimitBurst        float64 // Maximum burst tokens per client (default: 15)
	ChatRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.5)
	LLMBurstTokens            float64 // Maximum burst tokens for fallback calls (default: 40)
	LLMRefillPerHour          float64 // Fallback tokens refilled per hour (default: 20)

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Observability
	BetterStackToken    string  // Better Stack source token (empty = stdout only)
	BetterStackEndpoint string  // Better Stack ingest endpoint override
	SentryDSN           string  // Sentry DSN (empty = disabled)
	SentryEnvironment   string  // Sentry environment tag (default: "production")
	SentrySampleRate    float64 // Sentry traces sample rate (default: 0.1)

	// R2 Archive Configuration (evaluation reports)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		ResolveTimeout:  getDurationEnv(EnvResolveTimeout, 25*time.Second),

		// Data Configuration
		DataDir:           getEnv(EnvDataDir, getDefaultDataDir()),
		KnowledgeBasePath: getEnv(EnvKnowledgeBasePath, ""),

		// Fallback LLM Configuration
		LLMEnabled:          getBoolEnv(EnvLLMEnabled, true),
		GeminiAPIKey:        getEnv(EnvGeminiAPIKey, ""),
		GroqAPIKey:          getEnv(EnvGroqAPIKey, ""),
		GeminiModels:        getEnv(EnvGeminiModels, ""),
		GroqModels:          getEnv(EnvGroqModels, ""),
		LLMPrimaryProvider:  getEnv(EnvLLMPrimaryProvider, "gemini"),
		LLMFallbackProvider: getEnv(EnvLLMFallbackProvider, "groq"),
		LLMRetryMaxAttempts: getIntEnv(EnvLLMRetryMaxAttempts, 3),

		// Rate Limits
		ChatRateLimitBurst:        getFloatEnv(EnvChatRateLimitBurst, 15.0),
		ChatRateLimitRefillPerSec: getFloatEnv(EnvChatRateLimitRefill, 0.5),
		LLMBurstTokens:            getFloatEnv(EnvLLMBurstTokens, 40.0),
		LLMRefillPerHour:          getFloatEnv(EnvLLMRefillPerHour, 20.0),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Observability
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
		SentryDSN:           getEnv(EnvSentryDSN, ""),
		SentryEnvironment:   getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:    getFloatEnv(EnvSentrySampleRate, 0.1),

		// R2 Archive Configuration
		R2AccountID:       getEnv(EnvR2AccountID, ""),
		R2AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
		R2SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
		R2BucketName:      getEnv(EnvR2BucketName, ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.ResolveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvResolveTimeout, c.ResolveTimeout))
	}
	if c.LLMRetryMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvLLMRetryMaxAttempts, c.LLMRetryMaxAttempts))
	}
	if c.ChatRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvChatRateLimitBurst, c.ChatRateLimitBurst))
	}
	if c.LLMPrimaryProvider != "gemini" && c.LLMPrimaryProvider != "groq" {
		errs = append(errs, fmt.Errorf("%s must be \"gemini\" or \"groq\", got %q", EnvLLMPrimaryProvider, c.LLMPrimaryProvider))
	}
	if c.LLMFallbackProvider != "" && c.LLMFallbackProvider != "gemini" && c.LLMFallbackProvider != "groq" {
		errs = append(errs, fmt.Errorf("%s must be \"gemini\" or \"groq\", got %q", EnvLLMFallbackProvider, c.LLMFallbackProvider))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 1, got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite query log database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "concierge.db")
}

// HasLLMProvider returns true if at least one fallback provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}

// HasR2 returns true if the R2 archive credentials are fully configured.
func (c *Config) HasR2() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}
