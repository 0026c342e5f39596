package ratelimit

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/campushub/concierge-go/internal/metrics"
)

func TestKeyedLimiterIsolatesKeys(t *testing.T) {
	kl := NewKeyedLimiter(KeyedConfig{Name: "chat", Burst: 1, RefillRate: 0.001, CleanupPeriod: time.Hour})
	defer kl.Stop()

	if !kl.Allow("client-a") {
		t.Fatal("first request for client-a should pass")
	}
	if kl.Allow("client-a") {
		t.Error("second request for client-a should be dropped")
	}
	if !kl.Allow("client-b") {
		t.Error("client-b should have its own bucket")
	}
}

func TestKeyedLimiterEmptyKeyAlwaysAllowed(t *testing.T) {
	kl := NewKeyedLimiter(KeyedConfig{Name: "chat", Burst: 1, RefillRate: 0.001, CleanupPeriod: time.Hour})
	defer kl.Stop()

	for range 5 {
		if !kl.Allow("") {
			t.Fatal("empty key should never be limited")
		}
	}
}

func TestKeyedLimiterRecordsDrops(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	kl := NewKeyedLimiter(KeyedConfig{Name: "llm", Burst: 1, RefillRate: 0.001, CleanupPeriod: time.Hour, Metrics: m})
	defer kl.Stop()

	kl.Allow("client-a")
	kl.Allow("client-a")

	if got := testutil.ToFloat64(m.RateLimiterDropped.WithLabelValues("llm")); got != 1 {
		t.Errorf("dropped count = %v, want 1", got)
	}
}

func TestKeyedLimiterGetAvailable(t *testing.T) {
	kl := NewKeyedLimiter(KeyedConfig{Name: "chat", Burst: 4, RefillRate: 0.001, CleanupPeriod: time.Hour})
	defer kl.Stop()

	if got := kl.GetAvailable("unseen"); got != 4 {
		t.Errorf("available for unseen key = %v, want burst 4", got)
	}

	kl.Allow("seen")
	if got := kl.GetAvailable("seen"); got >= 4 {
		t.Errorf("available after consume = %v, want less than burst", got)
	}
	if kl.GetActiveCount() != 1 {
		t.Errorf("active count = %d, want 1", kl.GetActiveCount())
	}
}
