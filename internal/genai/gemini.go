// Package genai provides the generative fallback for campus queries.
// This file contains the Gemini implementation.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/logger"
)

// geminiResolver resolves queries with Gemini models in JSON mode.
type geminiResolver struct {
	client     *genai.Client
	models     []string
	datasetDoc string
	log        *logger.Logger
}

// newGeminiResolver creates a Gemini-backed resolver.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiResolver(ctx context.Context, apiKey string, models []string, datasetDoc string, log *logger.Logger) (*geminiResolver, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if len(models) == 0 {
		models = DefaultGeminiModels
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiResolver{
		client:     client,
		models:     models,
		datasetDoc: datasetDoc,
		log:        log.WithModule("genai.gemini"),
	}, nil
}

// Resolve generates a structured answer, walking the model chain on
// provider failures.
func (r *geminiResolver) Resolve(ctx context.Context, query string) (*concierge.Response, error) {
	if r == nil {
		return nil, errors.New("gemini resolver is nil")
	}

	prompt := BuildResolvePrompt(r.datasetDoc, query)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2), // Low temperature for consistent structured output
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for _, model := range r.models {
		start := time.Now()
		result, err := r.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
		duration := time.Since(start)

		if err != nil {
			classified := classifyProviderError(ProviderGemini, err)
			r.log.WithFields(map[string]any{
				"model":       model,
				"duration_ms": duration.Milliseconds(),
			}).WithError(classified).Warn("gemini call failed")
			if !shouldTryNext(classified) {
				return nil, classified
			}
			lastErr = classified
			continue
		}

		resp, err := decodeResponse(ProviderGemini, extractText(result))
		if err != nil {
			return nil, err
		}

		r.log.WithFields(map[string]any{
			"model":       model,
			"duration_ms": duration.Milliseconds(),
		}).Debug("gemini call completed")
		return resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no gemini models configured")
	}
	return nil, lastErr
}

// extractText concatenates the text parts of the first candidate.
func extractText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}

// IsEnabled returns true if the resolver is properly initialized.
func (r *geminiResolver) IsEnabled() bool {
	return r != nil && r.client != nil
}

// Provider returns the provider type for this resolver.
func (r *geminiResolver) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the resolver.
// Safe to call on nil receiver.
func (r *geminiResolver) Close() error {
	if r == nil {
		return nil
	}
	// Note: genai.Client does not require explicit cleanup in current SDK version
	return nil
}
