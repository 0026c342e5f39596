// Package genai provides the generative fallback for campus queries.
//
// Architecture:
//   - Gemini: Uses google.golang.org/genai (official SDK)
//   - Groq: Uses github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Each provider carries an ordered model chain; the chain resolver moves
// to the next provider when a call fails with a quota or transient error.
// The model returns structured JSON which is schema-validated before it
// becomes a response.
package genai

import (
	"context"
	"time"

	"github.com/campushub/concierge-go/internal/concierge"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq represents Groq's API (OpenAI-compatible, fast inference).
	ProviderGroq Provider = "groq"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is not included as it uses a different SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq: "https://api.groq.com/openai/v1/",
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Resolver answers a campus query with a generative model.
type Resolver interface {
	// Resolve produces a schema-validated response for the query.
	Resolve(ctx context.Context, query string) (*concierge.Response, error)
	// IsEnabled returns true if the resolver is properly initialized.
	IsEnabled() bool
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the resolver.
	Close() error
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	// APIKey is the API key for the provider.
	APIKey string

	// Models is the ordered model chain. First model is primary, the
	// rest are fallbacks tried in order.
	Models []string
}

// Config holds configuration for all fallback providers.
type Config struct {
	// Providers is the ordered list of providers to try.
	Providers []Provider

	// Gemini configuration
	Gemini ProviderConfig

	// Groq configuration (OpenAI-compatible)
	Groq ProviderConfig
}

// RetryConfig defines retry behavior for transient fallback failures.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialDelay is the base delay before first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration
}

// Default model configurations.
// First element is primary model, subsequent elements are fallbacks.
var (
	// DefaultGeminiModels is the default model chain for Gemini.
	// gemini-2.5-flash handles structured JSON output well; the lite
	// variant is a cheaper fallback.
	DefaultGeminiModels = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}

	// DefaultGroqModels is the default model chain for Groq.
	DefaultGroqModels = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}

	// DefaultProviders is the default provider order for fallback.
	DefaultProviders = []Provider{ProviderGemini, ProviderGroq}
)

// Retry configuration defaults
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// HasProvider returns true if the specified provider is configured with an API key.
func (c *Config) HasProvider(p Provider) bool {
	switch p {
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderGroq:
		return c.Groq.APIKey != ""
	default:
		return false
	}
}

// ConfiguredProviders returns the providers with configured API keys,
// in the order specified by c.Providers.
func (c *Config) ConfiguredProviders() []Provider {
	providers := c.Providers
	if len(providers) == 0 {
		providers = DefaultProviders
	}
	result := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if c.HasProvider(p) {
			result = append(result, p)
		}
	}
	return result
}
