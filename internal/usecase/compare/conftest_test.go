package compare

import (
	"context"
	"time"

	"github.com/comparely/pricedex/internal/domain"
)

type mockCache struct {
	getFn       func(ctx context.Context, q domain.Query) (domain.CacheEntry, error)
	upsertFn    func(ctx context.Context, entry domain.CacheEntry) error
	getCalls    int
	upsertCalls int
	lastUpsert  domain.CacheEntry
}

func (m *mockCache) Get(ctx context.Context, q domain.Query) (domain.CacheEntry, error) {
	m.getCalls++
	if m.getFn != nil {
		return m.getFn(ctx, q)
	}
	return domain.CacheEntry{}, domain.ErrCacheMiss
}

func (m *mockCache) Upsert(ctx context.Context, entry domain.CacheEntry) error {
	m.upsertCalls++
	m.lastUpsert = entry
	if m.upsertFn != nil {
		return m.upsertFn(ctx, entry)
	}
	return nil
}

func (m *mockCache) TTL() time.Duration { return domain.DefaultCacheTTL }

type mockSearcher struct {
	vendorHits  []domain.RawHit
	broadHits   []domain.RawHit
	broadErr    error
	vendorCalls int
	broadCalls  int
}

func (m *mockSearcher) SearchVendors(_ context.Context, _ string, _ []domain.Vendor) []domain.RawHit {
	m.vendorCalls++
	return m.vendorHits
}

func (m *mockSearcher) SearchBroad(_ context.Context, _ string, _ int) ([]domain.RawHit, error) {
	m.broadCalls++
	return m.broadHits, m.broadErr
}

// acceptAll passes every URL through the filter.
type acceptAll struct{}

func (acceptAll) IsAcceptable(string) bool { return true }

type mockVerifier struct {
	verifyFn  func(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.VerifiedResult, []domain.Candidate, error)
	callCount int
}

func (m *mockVerifier) Verify(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.VerifiedResult, []domain.Candidate, error) {
	m.callCount++
	if m.verifyFn != nil {
		return m.verifyFn(ctx, query, candidates)
	}
	return nil, nil, nil
}

type mockResolver struct {
	resolveFn func(ctx context.Context, suspicious []domain.Candidate) []domain.VerifiedResult
	callCount int
}

func (m *mockResolver) Resolve(ctx context.Context, suspicious []domain.Candidate) []domain.VerifiedResult {
	m.callCount++
	if m.resolveFn != nil {
		return m.resolveFn(ctx, suspicious)
	}
	return nil
}

// passAllVerifier converts every candidate straight into a result.
func passAllVerifier() *mockVerifier {
	return &mockVerifier{
		verifyFn: func(_ context.Context, _ string, candidates []domain.Candidate) ([]domain.VerifiedResult, []domain.Candidate, error) {
			results := make([]domain.VerifiedResult, 0, len(candidates))
			for _, c := range candidates {
				c.Confidence = 0.8
				results = append(results, c.Verified())
			}
			domain.SortByPrice(results)
			return results, nil, nil
		},
	}
}
