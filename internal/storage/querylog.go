// Package storage persists a privacy-preserving log of resolved queries
// in SQLite. Only a truncated hash of the query text is stored, never the
// text itself.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT    NOT NULL,
	query_hash  TEXT    NOT NULL,
	intent      TEXT    NOT NULL,
	action      TEXT    NOT NULL,
	source      TEXT    NOT NULL,
	status      TEXT    NOT NULL,
	latency_ms  INTEGER NOT NULL,
	llm_allowed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolutions_created_at ON resolutions(created_at);
CREATE INDEX IF NOT EXISTS idx_resolutions_intent ON resolutions(intent);
`

// QueryLog wraps the SQLite connection for resolution records.
type QueryLog struct {
	conn    *sql.DB
	path    string
	metrics *metrics.Metrics
}

// Entry is one resolution record.
type Entry struct {
	Query      string
	Intent     concierge.Intent
	Action     concierge.Action
	Source     concierge.Source
	Status     string // ok, error
	Latency    time.Duration
	LLMAllowed bool
}

// New opens (or creates) the query log database and initializes the schema.
func New(dbPath string, m *metrics.Metrics) (*QueryLog, error) {
	// Ensure directory exists (skip for in-memory database)
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=30000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := conn.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &QueryLog{conn: conn, path: dbPath, metrics: m}, nil
}

// Record inserts a resolution record. Failures are reported to metrics
// but should not fail the request that produced the entry.
func (q *QueryLog) Record(ctx context.Context, entry Entry) error {
	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO resolutions (created_at, query_hash, intent, action, source, status, latency_ms, llm_allowed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		HashQuery(entry.Query),
		string(entry.Intent),
		string(entry.Action),
		string(entry.Source),
		entry.Status,
		entry.Latency.Milliseconds(),
		boolToInt(entry.LLMAllowed),
	)

	if q.metrics != nil {
		if err != nil {
			q.metrics.RecordQueryLogWrite("error")
		} else {
			q.metrics.RecordQueryLogWrite("success")
		}
	}
	if err != nil {
		return fmt.Errorf("record resolution: %w", err)
	}
	return nil
}

// Count returns the total number of recorded resolutions.
func (q *QueryLog) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM resolutions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count resolutions: %w", err)
	}
	return count, nil
}

// CountByIntent returns resolution counts grouped by intent.
func (q *QueryLog) CountByIntent(ctx context.Context) (map[string]int64, error) {
	rows, err := q.conn.QueryContext(ctx, `SELECT intent, COUNT(*) FROM resolutions GROUP BY intent`)
	if err != nil {
		return nil, fmt.Errorf("count by intent: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var intent string
		var count int64
		if err := rows.Scan(&intent, &count); err != nil {
			return nil, fmt.Errorf("scan intent count: %w", err)
		}
		counts[intent] = count
	}
	return counts, rows.Err()
}

// Ping verifies the database connection is alive.
func (q *QueryLog) Ping(ctx context.Context) error {
	return q.conn.PingContext(ctx)
}

// Path returns the database file path.
func (q *QueryLog) Path() string {
	return q.path
}

// Close closes the database connection.
func (q *QueryLog) Close() error {
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// HashQuery returns a truncated SHA-256 of the normalized query text.
// Enough to correlate repeats, useless for recovering the text.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:8])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
