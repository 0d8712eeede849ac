// Package screenshot renders product pages to images through a hosted
// screenshot API, feeding the vision fallback when structured data fails.
package screenshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/metrics"
)

const providerLabel = "screenshot"

// maxImageBytes caps a render download. Full-page PNGs of storefronts
// stay well under this.
const maxImageBytes = 10 << 20

// Client renders URLs to PNG via a ScreenshotOne-compatible API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	logger     *zap.Logger
}

// Config holds the screenshot provider settings.
type Config struct {
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient creates a screenshot provider client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		accessKey:  cfg.AccessKey,
		logger:     cfg.Logger,
	}
}

// Render returns the page rendered as PNG bytes. Renders are paid per
// call, so callers only reach here after the scrape path failed.
func (c *Client) Render(ctx context.Context, pageURL string) ([]byte, error) {
	q := url.Values{}
	q.Set("access_key", c.accessKey)
	q.Set("url", pageURL)
	q.Set("format", "png")
	q.Set("full_page", "false")
	q.Set("viewport_width", "1280")
	q.Set("viewport_height", "1600")
	q.Set("block_cookie_banners", "true")
	q.Set("block_ads", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/take?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build screenshot request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		metrics.ScreenshotRendersTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("screenshot request: %v: %w", err, domain.ErrScreenshotError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		metrics.ScreenshotRendersTotal.WithLabelValues("error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("screenshot API status %d: %s: %w", resp.StatusCode, snippet, domain.ErrScreenshotError)
	}

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		metrics.ScreenshotRendersTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read screenshot body: %v: %w", err, domain.ErrScreenshotError)
	}
	if len(img) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		metrics.ScreenshotRendersTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("empty screenshot body: %w", domain.ErrScreenshotError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(providerLabel, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues(providerLabel).Observe(duration.Seconds())
	metrics.ScreenshotRendersTotal.WithLabelValues("success").Inc()

	c.logger.Debug("screenshot rendered",
		zap.String("url", pageURL),
		zap.Int("bytes", len(img)),
		zap.Duration("duration", duration))

	return img, nil
}

// HealthCheck verifies the access key is present. Renders cost money,
// so we never burn one on a probe.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.accessKey == "" {
		return fmt.Errorf("screenshot provider: %w", domain.ErrNoCredentials)
	}
	return nil
}
