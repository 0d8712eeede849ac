package verify

import (
	"context"

	"github.com/comparely/pricedex/internal/domain"
)

// Verifier judges a candidate batch against the shopper's query in a
// single call.
type Verifier interface {
	Verify(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.Verdict, error)
}
