package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	ierr "github.com/campushub/concierge-go/internal/errors"
)

func TestCalculateBackoff(t *testing.T) {
	initial := 100 * time.Millisecond
	max := time.Second

	if got := CalculateBackoff(0, initial, max); got != 0 {
		t.Errorf("attempt 0 backoff = %v, want 0", got)
	}

	for attempt := 1; attempt <= 6; attempt++ {
		got := CalculateBackoff(attempt, initial, max)
		if got < 0 || got > max {
			t.Errorf("attempt %d backoff = %v, want within [0, %v]", attempt, got, max)
		}
	}
}

func TestWithRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}, func() error {
		calls++
		if calls < 2 {
			return ierr.NewUnavailableError("gemini", 503, errors.New("down"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("WithRetry error = %v, want nil", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetryDoesNotRetryQuota(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}, func() error {
		calls++
		return ierr.NewQuotaError("gemini", 429, errors.New("quota"))
	})

	if !ierr.IsQuotaExceeded(err) {
		t.Errorf("error = %v, want quota", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (quota is never retried)", calls)
	}
}

func TestWithRetryDoesNotRetryMalformed(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}, func() error {
		calls++
		return ierr.NewMalformedError("gemini", errors.New("schema"))
	})

	if !ierr.IsFallbackMalformed(err) {
		t.Errorf("error = %v, want malformed", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}, func() error {
		calls++
		return ierr.NewUnavailableError("gemini", 503, errors.New("down"))
	})

	if !ierr.IsFallbackUnavailable(err) {
		t.Errorf("error = %v, want unavailable", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, RetryConfig{MaxAttempts: 3}, func() error {
		calls++
		return ierr.NewUnavailableError("gemini", 503, errors.New("down"))
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 with a cancelled context", calls)
	}
}

func TestSleepCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep error = %v, want context.Canceled", err)
	}
	if err := Sleep(ctx, 0); err != nil {
		t.Errorf("Sleep(0) error = %v, want nil", err)
	}
}
