// Package openai holds the LLM providers: the text verifier that
// judges candidate results and the vision extractor that reads
// rendered product pages.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/metrics"
)

// Verifier judges a batch of candidates against the shopper's query
// using an OpenAI-compatible chat model.
type Verifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the LLM provider settings shared by the verifier and
// the vision extractor.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewVerifier creates a text verification provider.
func NewVerifier(cfg *Config) *Verifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Verifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

const verifierSystemPrompt = `You are a strict product-matching judge for a UK price comparison service.
You receive a shopper query and a numbered list of candidate results, one per retailer.
For each candidate decide:
- confidence (0.0 to 1.0): how likely the candidate is the exact product the shopper asked for, at a genuine retail price in GBP.
- suspicious (boolean): true if the price looks wrong for the product (e.g. a pack size parsed as a price, a membership fee, an unrelated product, an obviously broken price).
Mind pack sizes, volumes and multipacks: a different size or bundle lowers confidence.
Respond with ONLY a JSON object of the form:
{"verdicts": [{"index": 0, "confidence": 0.85, "suspicious": false, "reason": "..."}]}
One verdict per candidate, using the given indexes. No other text.`

type verdictsResponse struct {
	Verdicts []struct {
		Index      int     `json:"index"`
		Confidence float64 `json:"confidence"`
		Suspicious bool    `json:"suspicious"`
		Reason     string  `json:"reason"`
	} `json:"verdicts"`
}

// Verify submits the batch and returns one verdict per candidate.
// Verdicts with out-of-range indexes are dropped; a candidate the
// model skipped simply gets no verdict, which callers treat as reject.
func (v *Verifier) Verify(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.Verdict, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	req := openai.ChatCompletionRequest{
		Model:       v.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: verifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildVerifyPrompt(query, candidates)},
		},
	}

	start := time.Now()
	resp, err := v.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("llm_text", "error").Inc()
		return nil, parseAPIError("verifier", err, domain.ErrVerifierError)
	}
	if len(resp.Choices) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("llm_text", "error").Inc()
		return nil, fmt.Errorf("empty verifier response: %w", domain.ErrVerifierError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("llm_text", "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("llm_text").Observe(duration.Seconds())
	recordTokens(v.model, resp.Usage)

	var parsed verdictsResponse
	content := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse verifier response: %v: %w", err, domain.ErrVerifierError)
	}

	verdicts := make([]domain.Verdict, 0, len(parsed.Verdicts))
	for _, raw := range parsed.Verdicts {
		if raw.Index < 0 || raw.Index >= len(candidates) {
			v.logger.Warn("verifier returned out-of-range index", zap.Int("index", raw.Index))
			continue
		}
		verdicts = append(verdicts, domain.Verdict{
			Index:      raw.Index,
			Confidence: raw.Confidence,
			Suspicious: raw.Suspicious,
			Reason:     raw.Reason,
		})
	}

	v.logger.Debug("verification completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("verdicts", len(verdicts)),
		zap.Duration("duration", duration))

	return verdicts, nil
}

func buildVerifyPrompt(query string, candidates []domain.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopper query: %q\n\nCandidates:\n", query)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. vendor=%q title=%q price=%s %s url=%s\n",
			i, c.Vendor, c.ProductName, c.Price.String(), c.Currency, c.SourceURL)
	}
	return b.String()
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (v *Verifier) HealthCheck(ctx context.Context) error {
	if _, err := v.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func recordTokens(model string, usage openai.Usage) {
	if usage.TotalTokens == 0 {
		return
	}
	metrics.VerifierTokensTotal.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokens))
	metrics.VerifierTokensTotal.WithLabelValues(model, "completion").Add(float64(usage.CompletionTokens))
	metrics.VerifierTokensTotal.WithLabelValues(model, "total").Add(float64(usage.TotalTokens))
}

// parseAPIError extracts a human-readable error from the API response.
// Everything is wrapped with the given sentinel for correct 502 mapping.
func parseAPIError(op string, err error, sentinel error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s API error %d: %s: %w", op, reqErr.HTTPStatusCode, string(reqErr.Body), sentinel)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", op, apiErr.HTTPStatusCode, apiErr.Message, sentinel)
	}

	return fmt.Errorf("%s request failed: %v: %w", op, err, sentinel)
}
