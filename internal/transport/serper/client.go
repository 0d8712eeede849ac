// Package serper wraps the Serper-style Google search API used as the
// discovery layer of the comparison pipeline.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/metrics"
)

const providerLabel = "search"

// Client is a search provider over the Serper HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	country    string
	logger     *zap.Logger
}

// Config holds the search provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Country string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a search provider client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		country:    cfg.Country,
		logger:     cfg.Logger,
	}
}

type searchRequest struct {
	Q   string `json:"q"`
	GL  string `json:"gl,omitempty"`
	Num int    `json:"num,omitempty"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Price   any    `json:"price"` // sometimes a number, sometimes "£3.50"
}

// Search runs one query and returns the organic hits. vendorHint tags
// each hit with the vendor the query targeted; empty for broad search.
func (c *Client) Search(ctx context.Context, query string, count int, vendorHint string) ([]domain.RawHit, error) {
	body, err := json.Marshal(searchRequest{Q: query, GL: c.country, Num: count})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return nil, fmt.Errorf("search request: %v: %w", err, domain.ErrSearchProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search API status %d: %s: %w", resp.StatusCode, snippet, domain.ErrSearchProviderError)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return nil, fmt.Errorf("decode search response: %v: %w", err, domain.ErrSearchProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues(providerLabel).Observe(duration.Seconds())

	hits := make([]domain.RawHit, 0, len(parsed.Organic))
	for _, o := range parsed.Organic {
		if o.Link == "" {
			continue
		}
		hits = append(hits, domain.RawHit{
			Title:      o.Title,
			URL:        o.Link,
			PriceText:  priceToText(o.Price),
			VendorHint: vendorHint,
		})
	}

	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("hits", len(hits)),
		zap.Duration("duration", duration))

	return hits, nil
}

// priceToText normalizes the loosely typed price field into text for
// downstream parsing.
func priceToText(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		return fmt.Sprintf("%.2f", p)
	default:
		return ""
	}
}

// HealthCheck verifies the API key is present. The search API has no
// free ping endpoint, so this stays a local check.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("search provider: %w", domain.ErrNoCredentials)
	}
	return nil
}
