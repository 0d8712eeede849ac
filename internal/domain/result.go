package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CurrencyGBP is the only currency the engine emits. Single-market by design.
const CurrencyGBP = "GBP"

// Calibrated confidence band. The verifier never emits outside it.
const (
	MinConfidence = 0.7
	MaxConfidence = 0.9
)

// VerifiedResult is a price-verified product page. Immutable once emitted.
type VerifiedResult struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	SourceURL   string          `json:"source_url"`
	Vendor      string          `json:"vendor"`
	Confidence  float64         `json:"confidence"`
}

// ClampConfidence forces a score into the calibrated [0.7, 0.9] band.
func ClampConfidence(c float64) float64 {
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}

// SortByPrice orders results ascending by price, in place.
// Equal prices keep their relative order.
func SortByPrice(results []VerifiedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price.LessThan(results[j].Price)
	})
}
