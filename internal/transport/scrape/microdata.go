package scrape

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/comparely/pricedex/internal/domain"
)

// Microdata fallback for storefronts that skip JSON-LD. Reads the
// itemprop attributes schema.org defines for Offer.
var (
	pricePropRe        = regexp.MustCompile(`(?is)itemprop\s*=\s*["']price["'][^>]*content\s*=\s*["']([^"']+)["']`)
	currencyPropRe     = regexp.MustCompile(`(?is)itemprop\s*=\s*["']priceCurrency["'][^>]*content\s*=\s*["']([^"']+)["']`)
	availabilityPropRe = regexp.MustCompile(`(?is)itemprop\s*=\s*["']availability["'][^>]*(?:href|content)\s*=\s*["']([^"']+)["']`)
)

func extractFromMicrodata(body []byte) (domain.PageExtract, bool) {
	m := pricePropRe.FindSubmatch(body)
	if m == nil {
		return domain.PageExtract{}, false
	}

	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(m[1])), "£"))
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		return domain.PageExtract{}, false
	}

	currency := domain.CurrencyGBP
	if cm := currencyPropRe.FindSubmatch(body); cm != nil {
		currency = strings.ToUpper(strings.TrimSpace(string(cm[1])))
	}

	availability := domain.Unknown
	if am := availabilityPropRe.FindSubmatch(body); am != nil {
		availability = mapAvailability(string(am[1]))
	}

	return domain.PageExtract{
		Price:        price,
		Currency:     currency,
		Availability: availability,
		Confidence:   jsonLDConfidence,
		Notes:        "microdata offer",
	}, true
}
