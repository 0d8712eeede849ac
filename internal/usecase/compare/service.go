// Package compare is the pipeline controller: cache check, vendor
// fan-out, filtering, dedup, verification, availability re-checks and
// the broad-market fallback, assembled into one response.
package compare

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/logger"
	"github.com/comparely/pricedex/internal/metrics"
	"github.com/comparely/pricedex/internal/usecase/dedupe"
)

// Debug carries per-stage counters for the response debug block.
type Debug struct {
	RawHits       int  `json:"raw_hits"`
	Filtered      int  `json:"filtered"`
	Candidates    int  `json:"candidates"`
	Verified      int  `json:"verified"`
	Suspicious    int  `json:"suspicious"`
	Recovered     int  `json:"recovered"`
	FallbackUsed  bool `json:"fallback_used"`
	FallbackAdded int  `json:"fallback_added"`
}

// Comparison is one completed compare call.
type Comparison struct {
	Results  []domain.VerifiedResult
	CacheHit bool
	CacheAge time.Duration
	HitCount int64
	Debug    Debug
}

// Service sequences the comparison pipeline.
type Service struct {
	cache        CacheRepo
	search       Searcher
	filter       URLFilter
	verifier     Verifier
	resolver     Resolver
	vendors      []domain.Vendor
	broadCount   int
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// New creates the pipeline controller.
func New(cache CacheRepo, search Searcher, filter URLFilter, verifier Verifier, resolver Resolver,
	vendors []domain.Vendor, broadCount, defaultLimit, maxLimit int) *Service {
	if broadCount <= 0 {
		broadCount = 20
	}
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if maxLimit <= 0 {
		maxLimit = 20
	}
	return &Service{
		cache:        cache,
		search:       search,
		filter:       filter,
		verifier:     verifier,
		resolver:     resolver,
		vendors:      vendors,
		broadCount:   broadCount,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DefaultLimit returns the limit applied when the request omits one.
func (s *Service) DefaultLimit() int { return s.defaultLimit }

// Compare runs one comparison: cache first, then the full pipeline.
// Partial results are a normal outcome; an error means no meaningful
// search could be attempted at all.
func (s *Service) Compare(ctx context.Context, q domain.Query) (Comparison, error) {
	log := logger.FromContext(ctx)

	if q.Limit == 0 {
		q.Limit = s.defaultLimit
	}
	if err := q.Validate(s.maxLimit); err != nil {
		return Comparison{}, err
	}

	normalized := q.Normalized()

	if q.BypassCache {
		metrics.CacheTotal.WithLabelValues("bypass").Inc()
	} else {
		entry, err := s.cache.Get(ctx, q)
		switch {
		case err == nil:
			metrics.CacheTotal.WithLabelValues("hit").Inc()
			return Comparison{
				Results:  entry.Results,
				CacheHit: true,
				CacheAge: entry.Age(s.now()),
				HitCount: entry.HitCount,
			}, nil
		case errors.Is(err, domain.ErrCacheMiss):
			metrics.CacheTotal.WithLabelValues("miss").Inc()
		default:
			// A cache outage must not fail the request; run the pipeline.
			metrics.CacheTotal.WithLabelValues("miss").Inc()
			log.Warn("cache lookup failed", zap.Error(err))
		}
	}

	results, debug, err := s.runPipeline(ctx, q, normalized)
	if err != nil {
		// Hard failure: no cache write, the next request retries cleanly.
		return Comparison{}, err
	}

	domain.SortByPrice(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	// Cached unconditionally, empty result sets included: repeated
	// expensive misses cost more than a thin entry for one TTL window.
	now := s.now()
	entry := domain.CacheEntry{
		QueryNormalized: normalized,
		QueryOriginal:   q.Text,
		LimitRequested:  q.Limit,
		Results:         results,
		CreatedAt:       now,
		UpdatedAt:       now,
		ExpiresAt:       now.Add(s.cache.TTL()),
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}

	return Comparison{Results: results, Debug: debug}, nil
}

// runPipeline executes fan-out through fallback and returns the merged
// result set, unsorted and untruncated.
func (s *Service) runPipeline(ctx context.Context, q domain.Query, normalized string) ([]domain.VerifiedResult, Debug, error) {
	log := logger.FromContext(ctx)
	var debug Debug

	hits := s.search.SearchVendors(ctx, normalized, s.vendors)
	debug.RawHits = len(hits)
	metrics.PipelineStageResults.WithLabelValues("raw").Add(float64(len(hits)))

	filtered := s.applyFilter(hits)
	debug.Filtered = len(filtered)
	metrics.PipelineStageResults.WithLabelValues("filtered").Add(float64(len(filtered)))

	candidates := dedupe.Dedupe(filtered, normalized)
	debug.Candidates = len(candidates)
	metrics.PipelineStageResults.WithLabelValues("candidates").Add(float64(len(candidates)))

	passed, suspicious, err := s.verifier.Verify(ctx, normalized, candidates)
	if err != nil {
		return nil, debug, fmt.Errorf("primary verification: %w", err)
	}
	debug.Verified = len(passed)
	debug.Suspicious = len(suspicious)
	metrics.PipelineStageResults.WithLabelValues("verified").Add(float64(len(passed)))

	recovered := s.resolver.Resolve(ctx, suspicious)
	debug.Recovered = len(recovered)
	metrics.PipelineStageResults.WithLabelValues("availability").Add(float64(len(recovered)))

	results := append(passed, recovered...)

	if len(results) < q.Limit {
		debug.FallbackUsed = true
		added, err := s.fallback(ctx, normalized, results)
		if err != nil {
			// With nothing at all to show and no raw hits either, the
			// provider is down; surface it. Otherwise degrade to what
			// survived.
			if len(results) == 0 && debug.RawHits == 0 {
				return nil, debug, fmt.Errorf("fallback search: %w", err)
			}
			log.Warn("fallback search failed", zap.Error(err))
		}
		debug.FallbackAdded = len(added)
		metrics.PipelineStageResults.WithLabelValues("fallback").Add(float64(len(added)))
		results = append(results, added...)
	}

	return results, debug, nil
}

// fallback runs one broad, vendor-unscoped search through the same
// filter-dedupe-verify-availability chain, keeping only vendors the
// primary pass did not already cover.
func (s *Service) fallback(ctx context.Context, normalized string, existing []domain.VerifiedResult) ([]domain.VerifiedResult, error) {
	log := logger.FromContext(ctx)

	hits, err := s.search.SearchBroad(ctx, normalized, s.broadCount)
	if err != nil {
		return nil, err
	}

	candidates := dedupe.Dedupe(s.applyFilter(hits), normalized)
	candidates = excludeCovered(candidates, existing)
	if len(candidates) == 0 {
		return nil, nil
	}

	passed, suspicious, err := s.verifier.Verify(ctx, normalized, candidates)
	if err != nil {
		// The primary results stand on their own; a fallback
		// verification failure only costs the extra coverage.
		log.Warn("fallback verification failed", zap.Error(err))
		return nil, nil
	}

	return append(passed, s.resolver.Resolve(ctx, suspicious)...), nil
}

func (s *Service) applyFilter(hits []domain.RawHit) []domain.RawHit {
	kept := hits[:0:0]
	for _, h := range hits {
		if s.filter.IsAcceptable(h.URL) {
			kept = append(kept, h)
		}
	}
	return kept
}

// excludeCovered drops candidates whose vendor or host the primary
// result set already covers, so no vendor appears twice across
// primary and fallback.
func excludeCovered(candidates []domain.Candidate, existing []domain.VerifiedResult) []domain.Candidate {
	covered := make(map[string]struct{}, 2*len(existing))
	for _, r := range existing {
		covered[strings.ToLower(r.Vendor)] = struct{}{}
		if h := hostOf(r.SourceURL); h != "" {
			covered[h] = struct{}{}
		}
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if _, ok := covered[strings.ToLower(c.Vendor)]; ok {
			continue
		}
		if h := hostOf(c.SourceURL); h != "" {
			if _, ok := covered[h]; ok {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
