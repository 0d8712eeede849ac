// Package verify applies the batched LLM judgement to the candidate
// set: wrong products drop out, suspicious prices get routed to the
// availability check, survivors get calibrated confidence scores.
package verify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
)

// matchThreshold separates wrong-product rejections from genuine
// matches. Below it the candidate is the wrong variant, an accessory,
// or unrelated; at or above, the candidate survives.
const matchThreshold = 0.5

// Service scores and splits candidates in one verifier call.
type Service struct {
	verifier Verifier
	logger   *zap.Logger
}

// New creates a verification service.
func New(verifier Verifier, logger *zap.Logger) *Service {
	return &Service{verifier: verifier, logger: logger}
}

// Verify runs the single batched verification call. Returns passed
// results sorted ascending by price, plus the suspicious candidates
// that need availability re-verification before they can be emitted.
// A verifier failure is a hard error: without judgement nothing can be
// trusted downstream.
func (s *Service) Verify(ctx context.Context, query string, candidates []domain.Candidate) ([]domain.VerifiedResult, []domain.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	verdicts, err := s.verifier.Verify(ctx, query, candidates)
	if err != nil {
		return nil, nil, fmt.Errorf("verify candidates: %w", err)
	}

	var (
		passed     []domain.VerifiedResult
		suspicious []domain.Candidate
	)

	for _, v := range verdicts {
		if v.Index < 0 || v.Index >= len(candidates) {
			s.logger.Warn("verdict index out of range",
				zap.Int("index", v.Index),
				zap.Int("candidates", len(candidates)))
			continue
		}
		c := candidates[v.Index]
		c.Confidence = v.Confidence
		c.Suspicious = v.Suspicious

		if v.Confidence < matchThreshold {
			s.logger.Debug("candidate rejected",
				zap.String("vendor", c.Vendor),
				zap.Float64("confidence", v.Confidence),
				zap.String("reason", v.Reason))
			continue
		}

		if v.Suspicious {
			suspicious = append(suspicious, c)
			continue
		}

		passed = append(passed, c.Verified())
	}

	// Candidates the model skipped get no verdict and are dropped.
	domain.SortByPrice(passed)

	s.logger.Debug("verification split",
		zap.Int("candidates", len(candidates)),
		zap.Int("passed", len(passed)),
		zap.Int("suspicious", len(suspicious)))

	return passed, suspicious, nil
}
