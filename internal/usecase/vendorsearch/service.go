// Package vendorsearch fans one product query out across the priority
// vendor panel and gathers the raw hits.
package vendorsearch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
)

// Service runs per-vendor and broad-market searches.
type Service struct {
	search    Searcher
	perVendor int
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a vendor search service. perVendor is the hit count
// requested per vendor query; timeout bounds each individual call.
func New(search Searcher, perVendor int, timeout time.Duration, logger *zap.Logger) *Service {
	if perVendor <= 0 {
		perVendor = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{search: search, perVendor: perVendor, timeout: timeout, logger: logger}
}

// SearchVendors queries every vendor concurrently and returns whatever
// succeeded. Vendor calls are cheap text searches, so the fan-out is
// unbounded across the panel. A failed or timed-out vendor is logged
// and skipped; it never fails the stage.
func (s *Service) SearchVendors(ctx context.Context, query string, vendors []domain.Vendor) []domain.RawHit {
	var (
		mu   sync.Mutex
		hits []domain.RawHit
		wg   sync.WaitGroup
	)

	for _, v := range vendors {
		wg.Add(1)
		go func(v domain.Vendor) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			q := fmt.Sprintf("%s %s product page", query, v.Name)
			vendorHits, err := s.search.Search(callCtx, q, s.perVendor, v.Name)
			if err != nil {
				s.logger.Warn("vendor search failed",
					zap.String("vendor", v.Name),
					zap.Error(err))
				return
			}

			mu.Lock()
			hits = append(hits, vendorHits...)
			mu.Unlock()
		}(v)
	}

	wg.Wait()

	s.logger.Debug("vendor fan-out completed",
		zap.Int("vendors", len(vendors)),
		zap.Int("hits", len(hits)))

	return hits
}

// SearchBroad runs one vendor-unscoped search over the whole market.
// Unlike the fan-out, a broad search failure is surfaced: the fallback
// stage has nothing to work with without it.
func (s *Service) SearchBroad(ctx context.Context, query string, count int) ([]domain.RawHit, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	hits, err := s.search.Search(callCtx, query, count, "")
	if err != nil {
		return nil, fmt.Errorf("broad search: %w", err)
	}
	return hits, nil
}
