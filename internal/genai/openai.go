// Package genai provides the generative fallback for campus queries.
// This file contains the OpenAI-compatible implementation (Groq).
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/logger"
)

// openaiResolver resolves queries via an OpenAI-compatible endpoint.
type openaiResolver struct {
	client     openai.Client
	models     []string
	datasetDoc string
	provider   Provider
	log        *logger.Logger
}

// newOpenAIResolver creates a resolver for an OpenAI-compatible provider.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAIResolver(provider Provider, apiKey string, models []string, datasetDoc string, log *logger.Logger) (*openaiResolver, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}

	if len(models) == 0 {
		switch provider {
		case ProviderGroq:
			models = DefaultGroqModels
		default:
			return nil, fmt.Errorf("no default models for provider: %s", provider)
		}
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiResolver{
		client:     client,
		models:     models,
		datasetDoc: datasetDoc,
		provider:   provider,
		log:        log.WithModule("genai." + provider.String()),
	}, nil
}

// Resolve generates a structured answer, walking the model chain on
// provider failures.
func (r *openaiResolver) Resolve(ctx context.Context, query string) (*concierge.Response, error) {
	if r == nil {
		return nil, errors.New("openai resolver is nil")
	}

	prompt := BuildResolvePrompt(r.datasetDoc, query)

	var lastErr error
	for _, model := range r.models {
		params := openai.ChatCompletionNewParams{
			Model: model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Temperature: openai.Float(0.2), // Low temperature for consistent structured output
			MaxTokens:   openai.Int(1024),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		}

		start := time.Now()
		completion, err := r.client.Chat.Completions.New(ctx, params)
		duration := time.Since(start)

		if err != nil {
			classified := classifyProviderError(r.provider, err)
			r.log.WithFields(map[string]any{
				"model":       model,
				"duration_ms": duration.Milliseconds(),
			}).WithError(classified).Warn("chat completion failed")
			if !shouldTryNext(classified) {
				return nil, classified
			}
			lastErr = classified
			continue
		}

		if len(completion.Choices) == 0 {
			lastErr = classifyProviderError(r.provider, errors.New("empty response from model"))
			continue
		}

		resp, err := decodeResponse(r.provider, completion.Choices[0].Message.Content)
		if err != nil {
			return nil, err
		}

		r.log.WithFields(map[string]any{
			"model":       model,
			"duration_ms": duration.Milliseconds(),
		}).Debug("chat completion completed")
		return resp, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no %s models configured", r.provider)
	}
	return nil, lastErr
}

// IsEnabled returns true if the resolver is properly initialized.
func (r *openaiResolver) IsEnabled() bool {
	return r != nil
}

// Provider returns the provider type for this resolver.
func (r *openaiResolver) Provider() Provider {
	if r == nil {
		return ""
	}
	return r.provider
}

// Close releases resources held by the resolver.
// Safe to call on nil receiver.
func (r *openaiResolver) Close() error {
	if r == nil {
		return nil
	}
	// openai-go client doesn't require cleanup
	return nil
}
