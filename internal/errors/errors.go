// Package errors provides domain-specific error types and sentinel errors
// for the concierge engine and its boundary layers.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrEmptyQuery indicates the caller submitted a blank query.
	// Rejected at the boundary before the engine runs.
	ErrEmptyQuery = errors.New("empty query")

	// ErrQuotaExceeded indicates the fallback provider rate-limited the
	// request (HTTP 429 or quota wording). Recoverable by caller retry
	// after a cooldown; never retried internally.
	ErrQuotaExceeded = errors.New("llm quota exceeded")

	// ErrFallbackMalformed indicates the fallback provider returned JSON
	// that failed schema validation. The engine degrades to a safe
	// empty-location response instead of guessing.
	ErrFallbackMalformed = errors.New("fallback response malformed")

	// ErrFallbackUnavailable indicates a transient transport or server
	// failure on the fallback path. Callers may retry with backoff.
	ErrFallbackUnavailable = errors.New("fallback provider unavailable")

	// ErrKnowledgeBaseLoad indicates malformed knowledge base data.
	// Fatal at startup, never a per-query error.
	ErrKnowledgeBaseLoad = errors.New("knowledge base load failed")

	// ErrRateLimitExceeded indicates a local rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// FallbackError wraps a fallback-path failure with provider context so the
// boundary layer can choose user-facing wording per error category.
type FallbackError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *FallbackError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fallback error (provider=%s, status=%d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fallback error (provider=%s): %v", e.Provider, e.Err)
}

func (e *FallbackError) Unwrap() error {
	return e.Err
}

// NewQuotaError wraps a provider rate-limit failure so errors.Is matches
// ErrQuotaExceeded while the original provider message is preserved.
func NewQuotaError(provider string, statusCode int, err error) *FallbackError {
	return &FallbackError{
		Provider:   provider,
		StatusCode: statusCode,
		Err:        fmt.Errorf("%w: %v", ErrQuotaExceeded, err),
	}
}

// NewMalformedError wraps a schema-validation failure of the provider response.
func NewMalformedError(provider string, err error) *FallbackError {
	return &FallbackError{
		Provider: provider,
		Err:      fmt.Errorf("%w: %v", ErrFallbackMalformed, err),
	}
}

// NewUnavailableError wraps a transient transport or server failure.
func NewUnavailableError(provider string, statusCode int, err error) *FallbackError {
	return &FallbackError{
		Provider:   provider,
		StatusCode: statusCode,
		Err:        fmt.Errorf("%w: %v", ErrFallbackUnavailable, err),
	}
}

// IsQuotaExceeded reports whether err is a provider quota/rate-limit failure.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsFallbackMalformed reports whether err is a schema-invalid provider response.
func IsFallbackMalformed(err error) bool {
	return errors.Is(err, ErrFallbackMalformed)
}

// IsFallbackUnavailable reports whether err is a transient fallback failure.
func IsFallbackUnavailable(err error) bool {
	return errors.Is(err, ErrFallbackUnavailable)
}

// IsKnowledgeBaseLoad reports whether err is a dataset parse or read failure.
func IsKnowledgeBaseLoad(err error) bool {
	return errors.Is(err, ErrKnowledgeBaseLoad)
}
