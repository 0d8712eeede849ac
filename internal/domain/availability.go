package domain

import "github.com/shopspring/decimal"

// Availability is the stock state read off a product page.
type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
	PreOrder   Availability = "pre_order"
	Unknown    Availability = "unknown"
)

// PageExtract is the price/availability reading for one product page,
// produced by structured-data extraction or the vision fallback.
type PageExtract struct {
	Price        decimal.Decimal
	Currency     string
	Availability Availability
	Confidence   float64
	Notes        string
}

// Usable reports whether the extract can confirm a candidate:
// it needs a positive price and some confidence behind it.
func (e PageExtract) Usable() bool {
	return e.Price.IsPositive() && e.Confidence > 0
}
