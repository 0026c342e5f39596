// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "CONCIERGE_PORT"
	EnvLogLevel        = "CONCIERGE_LOG_LEVEL"
	EnvShutdownTimeout = "CONCIERGE_SHUTDOWN_TIMEOUT"
	EnvResolveTimeout  = "CONCIERGE_RESOLVE_TIMEOUT"

	// Data
	EnvDataDir           = "CONCIERGE_DATA_DIR"
	EnvKnowledgeBasePath = "CONCIERGE_KNOWLEDGE_BASE_PATH"

	// Fallback LLM
	EnvLLMEnabled          = "CONCIERGE_LLM_ENABLED"
	EnvGeminiAPIKey        = "GEMINI_API_KEY"
	EnvGroqAPIKey          = "GROQ_API_KEY"
	EnvGeminiModels        = "CONCIERGE_GEMINI_MODELS"
	EnvGroqModels          = "CONCIERGE_GROQ_MODELS"
	EnvLLMPrimaryProvider  = "CONCIERGE_LLM_PRIMARY_PROVIDER"
	EnvLLMFallbackProvider = "CONCIERGE_LLM_FALLBACK_PROVIDER"
	EnvLLMRetryMaxAttempts = "CONCIERGE_LLM_RETRY_MAX_ATTEMPTS"

	// Rate Limits
	EnvChatRateLimitBurst  = "CONCIERGE_CHAT_RATE_BURST"
	EnvChatRateLimitRefill = "CONCIERGE_CHAT_RATE_REFILL"
	EnvLLMBurstTokens      = "CONCIERGE_LLM_RATE_BURST"
	EnvLLMRefillPerHour    = "CONCIERGE_LLM_RATE_REFILL_PER_HOUR"

	// Metrics
	EnvMetricsUsername = "CONCIERGE_METRICS_USERNAME"
	EnvMetricsPassword = "CONCIERGE_METRICS_PASSWORD"

	// Observability
	EnvBetterStackToken    = "CONCIERGE_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "CONCIERGE_BETTERSTACK_ENDPOINT"
	EnvSentryDSN           = "CONCIERGE_SENTRY_DSN"
	EnvSentryEnvironment   = "CONCIERGE_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate    = "CONCIERGE_SENTRY_SAMPLE_RATE"

	// R2 Archive
	EnvR2AccountID       = "CONCIERGE_R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "CONCIERGE_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "CONCIERGE_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "CONCIERGE_R2_BUCKET_NAME"
)
