package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/metrics"
)

func newTestLog(t *testing.T) *QueryLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "concierge.db")
	ql, err := New(path, metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ql.Close() })
	return ql
}

func TestNewCreatesDirectoryAndSchema(t *testing.T) {
	ql := newTestLog(t)
	require.NoError(t, ql.Ping(context.Background()))

	count, err := ql.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRecordAndCount(t *testing.T) {
	ql := newTestLog(t)
	ctx := context.Background()

	entries := []Entry{
		{
			Query:      "where is the library",
			Intent:     concierge.IntentLocationLookup,
			Action:     concierge.ActionShowLocation,
			Source:     concierge.SourceDeterministic,
			Status:     "ok",
			Latency:    3 * time.Millisecond,
			LLMAllowed: false,
		},
		{
			Query:      "library fine rules",
			Intent:     concierge.IntentPolicyQuery,
			Action:     concierge.ActionShowLocation,
			Source:     concierge.SourceDeterministic,
			Status:     "ok",
			Latency:    2 * time.Millisecond,
			LLMAllowed: true,
		},
		{
			Query:      "where is the library",
			Intent:     concierge.IntentLocationLookup,
			Action:     concierge.ActionShowLocation,
			Source:     concierge.SourceDeterministic,
			Status:     "ok",
			Latency:    1 * time.Millisecond,
			LLMAllowed: false,
		},
	}
	for _, e := range entries {
		require.NoError(t, ql.Record(ctx, e))
	}

	count, err := ql.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	byIntent, err := ql.CountByIntent(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byIntent["location_lookup"])
	assert.Equal(t, int64(1), byIntent["policy_query"])
}

func TestRecordStoresHashNotQueryText(t *testing.T) {
	ql := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, ql.Record(ctx, Entry{
		Query:  "where is the cafeteria",
		Intent: concierge.IntentLocationLookup,
		Action: concierge.ActionShowLocation,
		Source: concierge.SourceDeterministic,
		Status: "ok",
	}))

	var stored string
	err := ql.conn.QueryRowContext(ctx, `SELECT query_hash FROM resolutions LIMIT 1`).Scan(&stored)
	require.NoError(t, err)
	assert.Equal(t, HashQuery("where is the cafeteria"), stored)
	assert.NotContains(t, stored, "cafeteria")
}

func TestHashQuery(t *testing.T) {
	a := HashQuery("where is the library")
	b := HashQuery("where is the library")
	c := HashQuery("where is the cafeteria")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
