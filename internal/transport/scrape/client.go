// Package scrape fetches product pages and reads price and availability
// from their schema.org structured data. It is the cheap first pass
// before the screenshot fallback.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/metrics"
)

const providerLabel = "scrape"

// maxBodyBytes caps how much of a product page we read. Structured
// data lives in the head or early body on every storefront we target.
const maxBodyBytes = 2 << 20

// Client fetches product pages with a browser-like user agent.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Config holds page fetch settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

// NewClient creates a page scrape client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  ua,
		logger:     cfg.Logger,
	}
}

// Extract fetches the page and returns the structured-data reading.
// domain.ErrScrapeError covers fetch failures and pages with no
// usable product markup; callers fall through to the vision path.
func (c *Client) Extract(ctx context.Context, pageURL string) (domain.PageExtract, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return domain.PageExtract{}, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return domain.PageExtract{}, fmt.Errorf("fetch page: %v: %w", err, domain.ErrScrapeError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return domain.PageExtract{}, fmt.Errorf("page status %d: %w", resp.StatusCode, domain.ErrScrapeError)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return domain.PageExtract{}, fmt.Errorf("read page body: %v: %w", err, domain.ErrScrapeError)
	}

	extract, ok := extractFromJSONLD(body)
	if !ok {
		extract, ok = extractFromMicrodata(body)
	}
	if !ok {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return domain.PageExtract{}, fmt.Errorf("no product structured data: %w", domain.ErrScrapeError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues(providerLabel).Observe(duration.Seconds())

	c.logger.Debug("structured data extracted",
		zap.String("url", pageURL),
		zap.String("price", extract.Price.String()),
		zap.String("availability", string(extract.Availability)))

	return extract, nil
}
