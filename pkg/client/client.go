package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultTimeout = 180 * time.Second

// Client talks to a pricedex API server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout. Cold-cache comparisons can
// take a minute or more; the default allows for that.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a pricedex API client.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("pricedex: base URL required")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// CompareRequest is one price comparison request.
type CompareRequest struct {
	Query       string `json:"query"`
	Limit       int    `json:"limit,omitempty"`
	BypassCache bool   `json:"bypass_cache,omitempty"`
}

// Product is one verified result.
type Product struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	SourceURL   string          `json:"source_url"`
	Vendor      string          `json:"vendor"`
	Confidence  float64         `json:"confidence"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	Query           string   `json:"query"`
	Limit           int      `json:"limit"`
	ResultsCount    int      `json:"results_count"`
	ExecutionTime   float64  `json:"execution_time"`
	CacheHit        bool     `json:"cache_hit"`
	CacheAgeSeconds *float64 `json:"cache_age_seconds,omitempty"`
	CacheHitCount   *int64   `json:"cache_hit_count,omitempty"`
}

// CompareResponse is a completed comparison.
type CompareResponse struct {
	Success  bool           `json:"success"`
	Products []Product      `json:"products"`
	Metadata Metadata       `json:"metadata"`
	Debug    map[string]any `json:"debug,omitempty"`
}

// Compare runs a price comparison.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error) {
	var resp CompareResponse
	if err := c.do(ctx, http.MethodPost, "/price-comparison", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthReport is the server's component health breakdown.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health fetches the server health report. A degraded server returns
// the report with a nil error; only transport failures error.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	var report HealthReport
	err := c.do(ctx, http.MethodGet, "/health", nil, &report)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && report.Status != "" {
		return &report, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("pricedex: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("pricedex: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pricedex: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("pricedex: read response: %w", err)
	}

	// Decode the body first: error responses still carry JSON, and the
	// health endpoint returns its report alongside a 503.
	if out != nil {
		_ = json.Unmarshal(data, out)
	}

	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, data)
	}
	return nil
}
