// Package main provides the campus concierge server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campushub/concierge-go/internal/buildinfo"
	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/config"
	"github.com/campushub/concierge-go/internal/genai"
	"github.com/campushub/concierge-go/internal/kb"
	"github.com/campushub/concierge-go/internal/logger"
	"github.com/campushub/concierge-go/internal/metrics"
	"github.com/campushub/concierge-go/internal/ratelimit"
	"github.com/campushub/concierge-go/internal/sentry"
	"github.com/campushub/concierge-go/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting Campus Concierge Server")

	// Initialize error tracking (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Load the campus knowledge base
	base, err := loadKnowledgeBase(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to load knowledge base")
	}
	log.WithField("locations", base.Len()).Info("Knowledge base loaded")

	// Open the query log database
	queryLog, err := storage.New(cfg.SQLitePath(), m)
	if err != nil {
		log.WithError(err).Fatal("Failed to open query log database")
	}
	defer func() { _ = queryLog.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Query log database connected")

	// Create the generative fallback resolver (optional)
	var resolver genai.Resolver
	if cfg.LLMEnabled && cfg.HasLLMProvider() {
		resolver, err = genai.NewResolver(context.Background(), genaiConfig(cfg), base, m, log)
		if err != nil {
			log.WithError(err).Warn("Failed to create fallback resolver, generative fallback disabled")
			resolver = nil
		} else {
			log.WithField("provider", string(resolver.Provider())).Info("Generative fallback enabled")
		}
	} else {
		log.Info("Generative fallback disabled")
	}

	// Create the resolution engine
	var engineResolver concierge.Resolver
	if resolver != nil {
		engineResolver = resolver
	}
	engine := concierge.NewEngine(base, engineResolver, m, log)

	// Per-client rate limiters
	chatLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:       "chat",
		Burst:      cfg.ChatRateLimitBurst,
		RefillRate: cfg.ChatRateLimitRefillPerSec,
		Metrics:    m,
	})
	defer chatLimiter.Stop()

	llmLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:       "llm",
		Burst:      cfg.LLMBurstTokens,
		RefillRate: cfg.LLMRefillPerHour / 3600.0,
		Metrics:    m,
	})
	defer llmLimiter.Stop()

	// Create chat handler
	chat := newChatHandler(engine, queryLog, chatLimiter, llmLimiter, m, log, cfg)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, chat, queryLog, base, registry, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ChatHTTPRead,
		WriteTimeout: config.ChatHTTPWrite,
		IdleTimeout:  config.ChatHTTPIdle,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close the fallback resolver (if enabled)
	if resolver != nil {
		if err := resolver.Close(); err != nil {
			log.WithError(err).Error("Failed to close fallback resolver")
		}
	}

	// Close the query log database
	if err := queryLog.Close(); err != nil {
		log.WithError(err).Error("Failed to close query log database")
	}

	// Drain buffered error events before exiting
	sentry.Flush(config.SentryFlush)

	log.Info("Server stopped")
}

// loadKnowledgeBase loads the embedded dataset, or an on-disk override
// when one is configured.
func loadKnowledgeBase(cfg *config.Config) (*kb.KnowledgeBase, error) {
	if cfg.KnowledgeBasePath != "" {
		return kb.LoadFromFile(cfg.KnowledgeBasePath)
	}
	return kb.Load()
}

// genaiConfig maps service configuration onto the fallback provider chain.
func genaiConfig(cfg *config.Config) genai.Config {
	providers := []genai.Provider{genai.Provider(cfg.LLMPrimaryProvider)}
	if fallback := genai.Provider(cfg.LLMFallbackProvider); fallback != providers[0] {
		providers = append(providers, fallback)
	}

	return genai.Config{
		Providers: providers,
		Gemini: genai.ProviderConfig{
			APIKey: cfg.GeminiAPIKey,
			Models: splitModels(cfg.GeminiModels),
		},
		Groq: genai.ProviderConfig{
			APIKey: cfg.GroqAPIKey,
			Models: splitModels(cfg.GroqModels),
		},
	}
}

// splitModels parses a comma-separated model chain. Empty input keeps
// the provider defaults.
func splitModels(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}
