// Package availability re-verifies suspicious candidates against the
// live page: structured data first, then a screenshot read by a vision
// model. Out-of-stock and unreadable pages drop out entirely.
package availability

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/comparely/pricedex/internal/domain"
)

// Service resolves suspicious candidates with bounded concurrency.
// The window is small because the fallback path drives a paid
// screenshot render plus a vision call per candidate.
type Service struct {
	scraper  Scraper
	renderer Renderer
	vision   VisionReader
	window   int64
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates an availability verification service. window is the
// concurrent lookup budget; timeout bounds one candidate's whole
// scrape-render-read chain.
func New(scraper Scraper, renderer Renderer, vision VisionReader, window int, timeout time.Duration, logger *zap.Logger) *Service {
	if window <= 0 {
		window = 3
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Service{
		scraper:  scraper,
		renderer: renderer,
		vision:   vision,
		window:   int64(window),
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve checks each suspicious candidate against its live page and
// returns the subset that survives, price-sorted. One candidate's
// failure never aborts the batch; it is dropped and the rest proceed.
func (s *Service) Resolve(ctx context.Context, suspicious []domain.Candidate) []domain.VerifiedResult {
	if len(suspicious) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(s.window)

	var (
		mu      sync.Mutex
		results []domain.VerifiedResult
		wg      sync.WaitGroup
	)

	for _, c := range suspicious {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context gone; nothing else will finish either.
			break
		}

		wg.Add(1)
		go func(c domain.Candidate) {
			defer wg.Done()
			defer sem.Release(1)

			if result, ok := s.resolveOne(ctx, c); ok {
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
		}(c)
	}

	wg.Wait()

	domain.SortByPrice(results)

	s.logger.Debug("availability pass completed",
		zap.Int("suspicious", len(suspicious)),
		zap.Int("survived", len(results)))

	return results
}

func (s *Service) resolveOne(ctx context.Context, c domain.Candidate) (domain.VerifiedResult, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	extract, err := s.scraper.Extract(callCtx, c.SourceURL)
	if err != nil || !extract.Usable() {
		extract, err = s.visionFallback(callCtx, c)
		if err != nil {
			s.logger.Warn("availability check failed",
				zap.String("vendor", c.Vendor),
				zap.String("url", c.SourceURL),
				zap.Error(err))
			return domain.VerifiedResult{}, false
		}
	}

	if !extract.Usable() {
		s.logger.Debug("unusable page reading",
			zap.String("vendor", c.Vendor),
			zap.String("notes", extract.Notes))
		return domain.VerifiedResult{}, false
	}
	if extract.Availability == domain.OutOfStock {
		s.logger.Debug("out of stock, dropped",
			zap.String("vendor", c.Vendor),
			zap.String("url", c.SourceURL))
		return domain.VerifiedResult{}, false
	}
	if extract.Currency != "" && extract.Currency != domain.CurrencyGBP {
		s.logger.Debug("non-GBP listing, dropped",
			zap.String("vendor", c.Vendor),
			zap.String("currency", extract.Currency))
		return domain.VerifiedResult{}, false
	}

	// The page reading supersedes the search-snippet price.
	c.Price = extract.Price
	return c.Verified(), true
}

func (s *Service) visionFallback(ctx context.Context, c domain.Candidate) (domain.PageExtract, error) {
	image, err := s.renderer.Render(ctx, c.SourceURL)
	if err != nil {
		return domain.PageExtract{}, err
	}
	return s.vision.Extract(ctx, image, c.ProductName)
}
