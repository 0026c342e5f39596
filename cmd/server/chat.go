// Package main provides the campus concierge server entry point.
package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/config"
	"github.com/campushub/concierge-go/internal/ctxutil"
	ierr "github.com/campushub/concierge-go/internal/errors"
	"github.com/campushub/concierge-go/internal/genai"
	"github.com/campushub/concierge-go/internal/logger"
	"github.com/campushub/concierge-go/internal/metrics"
	"github.com/campushub/concierge-go/internal/ratelimit"
	"github.com/campushub/concierge-go/internal/sentry"
	"github.com/campushub/concierge-go/internal/storage"
)

// Client-facing error categories. Only quota exhaustion gets its own
// type so callers can tell "back off" apart from "something broke".
const (
	errorTypeQuota   = "quota_exceeded"
	errorTypeGeneral = "general_error"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Success   bool                `json:"success"`
	Data      *concierge.Response `json:"data,omitempty"`
	Message   string              `json:"message,omitempty"`
	ErrorType string              `json:"errorType,omitempty"`
}

// chatHandler serves the query resolution endpoint.
type chatHandler struct {
	engine      *concierge.Engine
	queryLog    *storage.QueryLog
	chatLimiter *ratelimit.KeyedLimiter
	llmLimiter  *ratelimit.KeyedLimiter
	metrics     *metrics.Metrics
	log         *logger.Logger
	cfg         *config.Config
}

func newChatHandler(
	engine *concierge.Engine,
	queryLog *storage.QueryLog,
	chatLimiter *ratelimit.KeyedLimiter,
	llmLimiter *ratelimit.KeyedLimiter,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *chatHandler {
	return &chatHandler{
		engine:      engine,
		queryLog:    queryLog,
		chatLimiter: chatLimiter,
		llmLimiter:  llmLimiter,
		metrics:     m,
		log:         log.WithModule("chat"),
		cfg:         cfg,
	}
}

// Handle processes POST /api/chat.
func (h *chatHandler) Handle(c *gin.Context) {
	clientKey := ctxutil.ClientKey(c.Request.Context())
	if clientKey == "" {
		clientKey = c.ClientIP()
	}

	if !h.chatLimiter.Allow(clientKey) {
		h.metrics.RecordHTTPError("rate_limited")
		c.JSON(http.StatusTooManyRequests, chatResponse{
			Success:   false,
			Message:   "Too many requests. Please slow down and try again.",
			ErrorType: errorTypeQuota,
		})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordHTTPError("bad_request")
		c.JSON(http.StatusBadRequest, chatResponse{
			Success:   false,
			Message:   "Request body must be JSON with a query field.",
			ErrorType: errorTypeGeneral,
		})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		h.metrics.RecordHTTPError("empty_query")
		c.JSON(http.StatusBadRequest, chatResponse{
			Success:   false,
			Message:   "Query must not be empty.",
			ErrorType: errorTypeGeneral,
		})
		return
	}

	// The fallback budget is separate from the request budget. When a
	// client burns through its fallback tokens it still gets deterministic
	// answers.
	allowLLM := h.cfg.LLMEnabled && h.llmLimiter.Allow(clientKey)
	if h.cfg.LLMEnabled && !allowLLM {
		h.log.WithFields(map[string]any{
			"client_key":      clientKey,
			"fallback_budget": h.llmLimiter.GetAvailable(clientKey),
		}).Debug("fallback budget exhausted, deterministic only")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ResolveTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.resolveWithRetry(ctx, req.Query, allowLLM)
	latency := time.Since(start)

	h.metrics.RecordResolveDuration("/api/chat", latency.Seconds())
	h.recordAsync(req.Query, resp, err, latency, allowLLM)

	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{Success: true, Data: resp})
}

// resolveWithRetry retries transient fallback failures. Quota and
// malformed-payload conditions never retry.
func (h *chatHandler) resolveWithRetry(ctx context.Context, query string, allowLLM bool) (*concierge.Response, error) {
	var resp *concierge.Response

	retryCfg := genai.RetryConfig{MaxAttempts: h.cfg.LLMRetryMaxAttempts}
	err := genai.WithRetry(ctx, retryCfg, func() error {
		result, rerr := h.engine.Resolve(ctx, query, concierge.Options{AllowLLM: allowLLM})
		if rerr != nil {
			return rerr
		}
		resp = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (h *chatHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ierr.ErrEmptyQuery):
		h.metrics.RecordHTTPError("empty_query")
		c.JSON(http.StatusBadRequest, chatResponse{
			Success:   false,
			Message:   "Query must not be empty.",
			ErrorType: errorTypeGeneral,
		})
	case ierr.IsQuotaExceeded(err):
		h.metrics.RecordHTTPError("quota_exceeded")
		c.JSON(http.StatusTooManyRequests, chatResponse{
			Success:   false,
			Message:   "The assistant is over capacity right now. Please try again later.",
			ErrorType: errorTypeQuota,
		})
	default:
		h.metrics.RecordHTTPError("internal")
		h.log.WithError(err).WithRequestID(ctxutil.RequestID(c.Request.Context())).
			Error("Query resolution failed")
		sentry.CaptureExceptionWithContext(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, chatResponse{
			Success:   false,
			Message:   "Something went wrong while resolving your query.",
			ErrorType: errorTypeGeneral,
		})
	}
}

// recordAsync writes the query log entry off the request path. A slow
// or failing disk must never delay a chat response.
func (h *chatHandler) recordAsync(query string, resp *concierge.Response, err error, latency time.Duration, allowLLM bool) {
	entry := storage.Entry{
		Query:      query,
		Status:     "ok",
		Latency:    latency,
		LLMAllowed: allowLLM,
	}
	if err != nil {
		entry.Status = "error"
	} else if resp != nil {
		entry.Intent = resp.Intent
		entry.Action = resp.Action
		entry.Source = resp.Source
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.QueryLogWrite)
		defer cancel()

		if rerr := h.queryLog.Record(ctx, entry); rerr != nil {
			h.log.WithError(rerr).Warn("Failed to record query log entry")
		}
	}()
}
