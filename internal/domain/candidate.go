package domain

import "github.com/shopspring/decimal"

// Candidate is the single best hit for one vendor, awaiting AI verification.
// Owned by one pipeline run; never shared across requests.
type Candidate struct {
	ProductName string
	Price       decimal.Decimal
	Currency    string
	SourceURL   string
	Vendor      string

	// Set by the AI verifier.
	Confidence float64
	Suspicious bool
}

// Verdict is the verifier's judgement on one candidate, addressed by
// position in the submitted batch.
type Verdict struct {
	Index      int
	Confidence float64
	Suspicious bool
	Reason     string
}

// Verified converts a candidate the verifier accepted into a final result.
func (c Candidate) Verified() VerifiedResult {
	return VerifiedResult{
		ProductName: c.ProductName,
		Price:       c.Price,
		Currency:    c.Currency,
		SourceURL:   c.SourceURL,
		Vendor:      c.Vendor,
		Confidence:  ClampConfidence(c.Confidence),
	}
}
