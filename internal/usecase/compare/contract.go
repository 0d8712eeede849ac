package compare

import (
	"context"
	"time"

	"github.com/comparely/pricedex/internal/domain"
)

// CacheRepo reads and writes comparison cache entries.
type CacheRepo interface {
	Get(ctx context.Context, q domain.Query) (domain.CacheEntry, error)
	Upsert(ctx context.Context, entry domain.CacheEntry) error
	TTL() time.Duration
}

// Searcher runs the vendor fan-out and the broad-market fallback search.
type Searcher interface {
	SearchVendors(ctx context.Context, query string, vendors []domain.Vendor) []domain.RawHit
	SearchBroad(ctx context.Context, query string, count int) ([]domain.RawHit, error)
}

// URLFilter rejects blocked domains and category/listing pages.
type URLFilter interface {
	IsAcceptable(rawURL string) bool
}

// Verifier splits a candidate batch into passed results and suspicious
// candidates in one LLM call.
type Verifier interface {
	Verify(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.VerifiedResult, []domain.Candidate, error)
}

// Resolver re-verifies suspicious candidates against their live pages.
type Resolver interface {
	Resolve(ctx context.Context, suspicious []domain.Candidate) []domain.VerifiedResult
}
