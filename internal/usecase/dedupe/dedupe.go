// Package dedupe collapses the surviving hits to one candidate per
// vendor: the hit whose title best matches the query, cheapest on tie.
package dedupe

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/comparely/pricedex/internal/domain"
)

type scoredHit struct {
	hit   domain.RawHit
	score float64
	price decimal.Decimal
}

// Dedupe groups hits by vendor and keeps the single best candidate per
// group. Hits without a parseable positive price are dropped: they can
// never become a priced result. Vendors with no surviving hit are
// simply absent.
func Dedupe(hits []domain.RawHit, query string) []domain.Candidate {
	queryTokens := tokenize(query)

	best := make(map[string]scoredHit)
	order := make([]string, 0, len(hits))

	for _, h := range hits {
		vendor := vendorOf(h)
		if vendor == "" {
			continue
		}

		price, ok := domain.ParsePrice(h.PriceText)
		if !ok && strings.ContainsRune(h.Title, '£') {
			// Broad-search snippets sometimes carry the price in the
			// title. Only trust it with an explicit pound sign, or
			// volumes like "300ml" get read as prices.
			price, ok = domain.ParsePrice(h.Title)
		}
		if !ok {
			continue
		}

		s := scoredHit{hit: h, score: titleScore(h.Title, queryTokens), price: price}

		current, seen := best[vendor]
		if !seen {
			best[vendor] = s
			order = append(order, vendor)
			continue
		}
		if s.score > current.score || (s.score == current.score && s.price.LessThan(current.price)) {
			best[vendor] = s
		}
	}

	candidates := make([]domain.Candidate, 0, len(best))
	for _, vendor := range order {
		s := best[vendor]
		candidates = append(candidates, domain.Candidate{
			ProductName: strings.TrimSpace(s.hit.Title),
			Price:       s.price,
			Currency:    domain.CurrencyGBP,
			SourceURL:   s.hit.URL,
			Vendor:      vendor,
		})
	}
	return candidates
}

// vendorOf uses the fan-out vendor hint when present, otherwise the
// hostname, so broad-search hits from unknown retailers still group.
func vendorOf(h domain.RawHit) string {
	if h.VendorHint != "" {
		return h.VendorHint
	}
	u, err := url.Parse(h.URL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// titleScore is the fraction of query tokens present in the title.
func titleScore(title string, queryTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	titleTokens := make(map[string]struct{})
	for _, tok := range tokenize(title) {
		titleTokens[tok] = struct{}{}
	}

	matched := 0
	for _, tok := range queryTokens {
		if _, ok := titleTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
