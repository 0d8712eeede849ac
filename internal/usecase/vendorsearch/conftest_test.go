package vendorsearch

import (
	"context"
	"sync"

	"github.com/comparely/pricedex/internal/domain"
)

// mockSearcher is a hand-rolled Searcher stub with call tracking.
type mockSearcher struct {
	mu        sync.Mutex
	calls     []string
	searchFn  func(ctx context.Context, query string, count int, vendorHint string) ([]domain.RawHit, error)
	callCount int
}

func (m *mockSearcher) Search(ctx context.Context, query string, count int, vendorHint string) ([]domain.RawHit, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.callCount++
	m.mu.Unlock()

	if m.searchFn != nil {
		return m.searchFn(ctx, query, count, vendorHint)
	}
	return nil, nil
}

func (m *mockSearcher) queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
