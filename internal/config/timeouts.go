// Centralized timeout constants for the HTTP boundary.
//
// These values are tuned around the generative fallback: a deterministic
// resolution finishes in microseconds, but a fallback call may walk a
// provider model chain with retries before it settles.

package config

import "time"

// HTTP server timeouts
const (
	// ChatHTTPRead is the HTTP server read timeout. Chat payloads are a
	// single short JSON object, so this stays small.
	ChatHTTPRead = 10 * time.Second

	// ChatHTTPWrite is the HTTP server write timeout. Must accommodate
	// the resolve timeout plus response serialization.
	ChatHTTPWrite = 30 * time.Second

	// ChatHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ChatHTTPIdle = 120 * time.Second
)

// Shutdown timeouts
const (
	// SentryFlush is how long shutdown waits for buffered error events.
	SentryFlush = 2 * time.Second

	// QueryLogWrite bounds a single asynchronous query log insert.
	QueryLogWrite = 5 * time.Second
)
