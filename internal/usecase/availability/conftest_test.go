package availability

import (
	"context"
	"sync"

	"github.com/comparely/pricedex/internal/domain"
)

type mockScraper struct {
	mu        sync.Mutex
	extractFn func(ctx context.Context, pageURL string) (domain.PageExtract, error)
	callCount int
}

func (m *mockScraper) Extract(ctx context.Context, pageURL string) (domain.PageExtract, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	if m.extractFn != nil {
		return m.extractFn(ctx, pageURL)
	}
	return domain.PageExtract{}, domain.ErrScrapeError
}

type mockRenderer struct {
	mu        sync.Mutex
	renderFn  func(ctx context.Context, pageURL string) ([]byte, error)
	callCount int
}

func (m *mockRenderer) Render(ctx context.Context, pageURL string) ([]byte, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	if m.renderFn != nil {
		return m.renderFn(ctx, pageURL)
	}
	return []byte{1}, nil
}

type mockVision struct {
	mu        sync.Mutex
	extractFn func(ctx context.Context, image []byte, productName string) (domain.PageExtract, error)
	callCount int
}

func (m *mockVision) Extract(ctx context.Context, image []byte, productName string) (domain.PageExtract, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	if m.extractFn != nil {
		return m.extractFn(ctx, image, productName)
	}
	return domain.PageExtract{}, domain.ErrVisionError
}
