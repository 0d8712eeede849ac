package vendorsearch

import (
	"context"

	"github.com/comparely/pricedex/internal/domain"
)

// Searcher issues one text search and returns the organic hits.
type Searcher interface {
	Search(ctx context.Context, query string, count int, vendorHint string) ([]domain.RawHit, error)
}
