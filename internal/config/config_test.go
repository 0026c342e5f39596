package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "10000" {
		t.Errorf("Port = %q, want 10000", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
	if !cfg.LLMEnabled {
		t.Error("LLMEnabled should default to true")
	}
	if cfg.LLMPrimaryProvider != "gemini" {
		t.Errorf("LLMPrimaryProvider = %q, want gemini", cfg.LLMPrimaryProvider)
	}
	if cfg.ChatRateLimitBurst != 15.0 {
		t.Errorf("ChatRateLimitBurst = %v, want 15", cfg.ChatRateLimitBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvResolveTimeout, "5s")
	t.Setenv(EnvLLMEnabled, "false")
	t.Setenv(EnvLLMRetryMaxAttempts, "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ResolveTimeout != 5*time.Second {
		t.Errorf("ResolveTimeout = %v, want 5s", cfg.ResolveTimeout)
	}
	if cfg.LLMEnabled {
		t.Error("LLMEnabled should be false")
	}
	if cfg.LLMRetryMaxAttempts != 7 {
		t.Errorf("LLMRetryMaxAttempts = %d, want 7", cfg.LLMRetryMaxAttempts)
	}
}

func TestValidateRejectsBadProvider(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvLLMPrimaryProvider, "mistral")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
	if !strings.Contains(err.Error(), EnvLLMPrimaryProvider) {
		t.Errorf("error should name the offending key, got %v", err)
	}
}

func TestValidateRejectsBadSampleRate(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvSentrySampleRate, "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for sample rate out of range")
	}
}

func TestHasLLMProvider(t *testing.T) {
	cfg := &Config{}
	if cfg.HasLLMProvider() {
		t.Error("HasLLMProvider should be false with no keys")
	}

	cfg.GroqAPIKey = "gsk_test"
	if !cfg.HasLLMProvider() {
		t.Error("HasLLMProvider should be true with a Groq key")
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.SQLitePath(); !strings.HasSuffix(got, "concierge.db") {
		t.Errorf("SQLitePath = %q, want concierge.db suffix", got)
	}
}
