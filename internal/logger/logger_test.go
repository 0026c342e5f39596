package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("kb").WithField("locations", 12).Info("knowledge base loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if entry["message"] != "knowledge base loaded" {
		t.Errorf("message = %v, want %q", entry["message"], "knowledge base loaded")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want %q", entry["level"], "info")
	}
	if entry["module"] != "kb" {
		t.Errorf("module = %v, want %q", entry["module"], "kb")
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestWarnLevelRename(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Warn("something odd")

	if !strings.Contains(buf.String(), `"level":"warning"`) {
		t.Errorf("expected warning level in output, got %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info record should be filtered at warn level, got %s", buf.String())
	}

	log.Error("should be kept")
	if buf.Len() == 0 {
		t.Error("error record should pass at warn level")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithError(errors.New("boom")).Error("resolve failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error message in output, got %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{"intent": "office_lookup", "score": 4}).Info("matched")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["intent"] != "office_lookup" {
		t.Errorf("intent = %v, want office_lookup", entry["intent"])
	}
	if entry["score"] != float64(4) {
		t.Errorf("score = %v, want 4", entry["score"])
	}
}

func TestFanoutHandler(t *testing.T) {
	var first, second bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&first, nil),
		slog.NewJSONHandler(&second, nil),
	)

	log := slog.New(h)
	log.Info("hello")

	if !strings.Contains(first.String(), "hello") {
		t.Error("first handler did not receive record")
	}
	if !strings.Contains(second.String(), "hello") {
		t.Error("second handler did not receive record")
	}
}
