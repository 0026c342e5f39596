// Package genai provides the generative fallback for campus queries.
// This file wires configured providers into a single fallback chain.
package genai

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/kb"
	"github.com/campushub/concierge-go/internal/logger"
	"github.com/campushub/concierge-go/internal/metrics"
)

// chainResolver tries each configured provider in order. Quota and
// transient errors advance the chain; malformed payloads and context
// errors stop it.
type chainResolver struct {
	resolvers []Resolver
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewResolver builds the fallback chain from configuration. Providers
// without API keys are skipped; with no provider configured the returned
// resolver reports IsEnabled() == false.
func NewResolver(ctx context.Context, cfg Config, base *kb.KnowledgeBase, m *metrics.Metrics, log *logger.Logger) (Resolver, error) {
	if log == nil {
		log = logger.New("info")
	}
	datasetDoc := base.PromptJSON()

	resolvers := make([]Resolver, 0, 2)
	for _, provider := range cfg.ConfiguredProviders() {
		switch provider {
		case ProviderGemini:
			r, err := newGeminiResolver(ctx, cfg.Gemini.APIKey, cfg.Gemini.Models, datasetDoc, log)
			if err != nil {
				return nil, fmt.Errorf("gemini resolver: %w", err)
			}
			if r != nil {
				resolvers = append(resolvers, r)
			}
		case ProviderGroq:
			r, err := newOpenAIResolver(ProviderGroq, cfg.Groq.APIKey, cfg.Groq.Models, datasetDoc, log)
			if err != nil {
				return nil, fmt.Errorf("groq resolver: %w", err)
			}
			if r != nil {
				resolvers = append(resolvers, r)
			}
		default:
			return nil, fmt.Errorf("unknown provider: %s", provider)
		}
	}

	return &chainResolver{
		resolvers: resolvers,
		metrics:   m,
		log:       log.WithModule("genai"),
	}, nil
}

// Resolve walks the provider chain until one answers.
func (c *chainResolver) Resolve(ctx context.Context, query string) (*concierge.Response, error) {
	if len(c.resolvers) == 0 {
		return nil, stderrors.New("no fallback providers configured")
	}

	var lastErr error
	for _, resolver := range c.resolvers {
		resp, err := resolver.Resolve(ctx, query)
		if err == nil {
			return resp, nil
		}

		c.recordError(resolver.Provider(), err)
		if !shouldTryNext(err) {
			return nil, err
		}
		c.log.WithField("provider", resolver.Provider().String()).WithError(err).Warn("provider failed, trying next")
		lastErr = err
	}

	return nil, lastErr
}

func (c *chainResolver) recordError(provider Provider, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordFallbackError(provider.String(), errorKind(err))
}

// IsEnabled returns true if at least one provider is available.
func (c *chainResolver) IsEnabled() bool {
	return len(c.resolvers) > 0
}

// Provider returns the primary provider of the chain.
func (c *chainResolver) Provider() Provider {
	if len(c.resolvers) == 0 {
		return ""
	}
	return c.resolvers[0].Provider()
}

// Close releases all provider resources.
func (c *chainResolver) Close() error {
	var errs []error
	for _, resolver := range c.resolvers {
		if err := resolver.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
