package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// chatHandler serves a canned chat completion with the given content.
func chatHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
		})
	}
}

func testCandidates() []domain.Candidate {
	return []domain.Candidate{
		{ProductName: "Johnson's Baby Oil 300ml", Price: decimal.RequireFromString("3.50"), Currency: "GBP", Vendor: "Boots", SourceURL: "https://www.boots.com/p/1"},
		{ProductName: "Baby Oil 300ml", Price: decimal.RequireFromString("300"), Currency: "GBP", Vendor: "Tesco", SourceURL: "https://www.tesco.com/p/2"},
	}
}

func TestVerifier_Verify(t *testing.T) {
	content := `Here are my verdicts:
{"verdicts": [
  {"index": 0, "confidence": 0.88, "suspicious": false, "reason": "exact match"},
  {"index": 1, "confidence": 0.2, "suspicious": true, "reason": "300 looks like a volume, not a price"}
]}`

	server := httptest.NewServer(chatHandler(t, content))
	defer server.Close()

	v := NewVerifier(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model", Logger: zap.NewNop()})

	verdicts, err := v.Verify(context.Background(), "johnson's baby oil 300ml", testCandidates())
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if verdicts[0].Confidence != 0.88 || verdicts[0].Suspicious {
		t.Errorf("unexpected first verdict: %+v", verdicts[0])
	}
	if !verdicts[1].Suspicious {
		t.Error("expected second verdict flagged suspicious")
	}
}

func TestVerifier_Verify_DropsOutOfRangeIndexes(t *testing.T) {
	content := `{"verdicts": [
  {"index": 5, "confidence": 0.9, "suspicious": false},
  {"index": -1, "confidence": 0.9, "suspicious": false},
  {"index": 0, "confidence": 0.8, "suspicious": false}
]}`

	server := httptest.NewServer(chatHandler(t, content))
	defer server.Close()

	v := NewVerifier(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	verdicts, err := v.Verify(context.Background(), "baby oil", testCandidates())
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict after dropping bad indexes, got %d", len(verdicts))
	}
	if verdicts[0].Index != 0 {
		t.Errorf("expected index 0, got %d", verdicts[0].Index)
	}
}

func TestVerifier_Verify_EmptyBatch(t *testing.T) {
	v := NewVerifier(&Config{APIKey: "k", BaseURL: "http://unused", Model: "m", Logger: zap.NewNop()})

	verdicts, err := v.Verify(context.Background(), "baby oil", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdicts != nil {
		t.Errorf("expected nil verdicts for empty batch, got %v", verdicts)
	}
}

func TestVerifier_Verify_BadJSON(t *testing.T) {
	server := httptest.NewServer(chatHandler(t, "I cannot help with that."))
	defer server.Close()

	v := NewVerifier(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := v.Verify(context.Background(), "baby oil", testCandidates())
	if !errors.Is(err, domain.ErrVerifierError) {
		t.Fatalf("expected ErrVerifierError, got %v", err)
	}
}

func TestVerifier_Verify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	v := NewVerifier(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := v.Verify(context.Background(), "baby oil", testCandidates())
	if !errors.Is(err, domain.ErrVerifierError) {
		t.Fatalf("expected ErrVerifierError, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{`prefix {"a": {"b": 2}} suffix`, `{"a": {"b": 2}}`},
		{"no json here", "no json here"},
	}
	for _, tc := range tests {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
