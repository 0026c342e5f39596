// Package genai provides the generative fallback for campus queries.
// This file classifies provider failures into the shared error taxonomy.
package genai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"

	ierr "github.com/campushub/concierge-go/internal/errors"
)

// classifyProviderError maps an SDK error onto the shared taxonomy:
// quota errors for 429/quota wording, unavailable for anything transient,
// and a bare provider error for permanent failures (bad key, bad request)
// that neither retry nor provider fallback can fix.
func classifyProviderError(provider Provider, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	statusCode := 0
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		statusCode = apiErr.StatusCode
	}

	errStr := strings.ToLower(err.Error())

	if statusCode == 429 || containsAny(errStr, "429", "quota", "rate limit", "too many requests", "resource_exhausted") {
		return ierr.NewQuotaError(provider.String(), statusCode, err)
	}

	if statusCode >= 500 || statusCode == 408 ||
		containsAny(errStr, "unavailable", "500", "502", "503", "504", "timeout",
			"deadline", "connection", "overloaded", "bad gateway", "internal server error", "capacity") {
		return ierr.NewUnavailableError(provider.String(), statusCode, err)
	}

	// Permanent: invalid key, bad request, model not found.
	return &ierr.FallbackError{Provider: provider.String(), StatusCode: statusCode, Err: err}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// errorKind labels a classified error for metrics.
func errorKind(err error) string {
	switch {
	case ierr.IsQuotaExceeded(err):
		return "quota"
	case ierr.IsFallbackMalformed(err):
		return "malformed"
	case ierr.IsFallbackUnavailable(err):
		return "unavailable"
	default:
		return "other"
	}
}

// shouldTryNext reports whether the chain should move on to the next
// model or provider after this error. Malformed payloads and context
// errors stop the chain; a different model is unlikely to help with the
// former and the caller is gone for the latter.
func shouldTryNext(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if ierr.IsFallbackMalformed(err) {
		return false
	}
	return true
}
