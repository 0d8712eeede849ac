package domain

// RawHit is a single search-provider result before filtering.
// Discarded once candidates are formed.
type RawHit struct {
	Title      string
	URL        string
	PriceText  string
	VendorHint string // vendor name the search was scoped to; empty for broad searches
}
