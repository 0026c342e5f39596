package ctxutil

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()

	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID on empty context = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("RequestID = %q, want req-123", got)
	}
}

func TestClientKey(t *testing.T) {
	ctx := context.Background()

	if got := ClientKey(ctx); got != "" {
		t.Errorf("ClientKey on empty context = %q, want empty", got)
	}

	ctx = WithClientKey(ctx, "10.0.0.1")
	if got := ClientKey(ctx); got != "10.0.0.1" {
		t.Errorf("ClientKey = %q, want 10.0.0.1", got)
	}
}
