package availability

import (
	"context"

	"github.com/comparely/pricedex/internal/domain"
)

// Scraper reads price and availability off a product page's
// structured data.
type Scraper interface {
	Extract(ctx context.Context, pageURL string) (domain.PageExtract, error)
}

// Renderer produces a screenshot of the rendered page.
type Renderer interface {
	Render(ctx context.Context, pageURL string) ([]byte, error)
}

// VisionReader reads price and availability off a page screenshot.
type VisionReader interface {
	Extract(ctx context.Context, image []byte, productName string) (domain.PageExtract, error)
}
