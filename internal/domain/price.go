package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Matches the first monetary figure in the text: "£12.99", "£1,299", "12.99", "9".
var priceRegex = regexp.MustCompile(`£?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)

// ParsePrice extracts the first GBP amount from free text such as a search
// snippet ("Johnson's Baby Oil 300ml - £3.50 at Boots"). Returns false when
// no parsable positive amount is present.
func ParsePrice(text string) (decimal.Decimal, bool) {
	if text == "" {
		return decimal.Zero, false
	}

	// Prefer an explicitly pound-prefixed amount; fall back to any number.
	m := priceRegex.FindStringSubmatch(preferPoundAmount(text))
	if m == nil {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func preferPoundAmount(text string) string {
	if i := strings.IndexRune(text, '£'); i >= 0 {
		return text[i:]
	}
	return text
}
