package verify

import (
	"context"

	"github.com/comparely/pricedex/internal/domain"
)

// mockVerifier is a hand-rolled Verifier stub.
type mockVerifier struct {
	verifyFn  func(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.Verdict, error)
	callCount int
}

func (m *mockVerifier) Verify(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.Verdict, error) {
	m.callCount++
	if m.verifyFn != nil {
		return m.verifyFn(ctx, query, candidates)
	}
	return nil, nil
}
