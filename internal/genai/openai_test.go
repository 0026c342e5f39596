package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/campushub/concierge-go/internal/logger"
)

func TestOpenAIRequestConstrainsResponseFormat(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		completion := map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": validPayload,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(completion); err != nil {
			t.Errorf("encode completion: %v", err)
		}
	}))
	defer srv.Close()

	resolver := &openaiResolver{
		client: openai.NewClient(
			option.WithBaseURL(srv.URL),
			option.WithAPIKey("test-key"),
		),
		models:     []string{"test-model"},
		datasetDoc: "{}",
		provider:   ProviderGroq,
		log:        logger.New("error"),
	}

	resp, err := resolver.Resolve(context.Background(), "where is the library")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resp == nil || len(resp.Locations) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	format, ok := captured["response_format"].(map[string]any)
	if !ok {
		t.Fatalf("request carries no response_format: %v", captured)
	}
	if format["type"] != "json_object" {
		t.Errorf("response_format type = %v, want json_object", format["type"])
	}
}
