package scrape

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/comparely/pricedex/internal/domain"
)

// Structured-data confidence is fixed: machine-readable markup is
// trustworthy but storefronts do leave it stale.
const jsonLDConfidence = 0.85

var scriptLDRe = regexp.MustCompile(`(?is)<script[^>]+type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)

// ldNode is a loose view over schema.org JSON-LD. Fields the
// storefronts disagree on stay json.RawMessage and get coerced later.
type ldNode struct {
	Type   json.RawMessage `json:"@type"`
	Graph  []ldNode        `json:"@graph"`
	Name   string          `json:"name"`
	Offers json.RawMessage `json:"offers"`
}

type ldOffer struct {
	Price         json.RawMessage `json:"price"`
	PriceCurrency string          `json:"priceCurrency"`
	Availability  string          `json:"availability"`
	LowPrice      json.RawMessage `json:"lowPrice"`
}

// extractFromJSONLD scans the page for JSON-LD Product nodes and
// returns the first offer with a parseable price.
func extractFromJSONLD(body []byte) (domain.PageExtract, bool) {
	for _, m := range scriptLDRe.FindAllSubmatch(body, -1) {
		raw := m[1]

		var nodes []ldNode
		var single ldNode
		if err := json.Unmarshal(raw, &single); err == nil {
			nodes = append(nodes, single)
		} else if err := json.Unmarshal(raw, &nodes); err != nil {
			continue
		}

		for _, n := range nodes {
			if extract, ok := extractFromNode(n); ok {
				return extract, true
			}
		}
	}
	return domain.PageExtract{}, false
}

func extractFromNode(n ldNode) (domain.PageExtract, bool) {
	for _, g := range n.Graph {
		if extract, ok := extractFromNode(g); ok {
			return extract, true
		}
	}

	if !isProductType(n.Type) || len(n.Offers) == 0 {
		return domain.PageExtract{}, false
	}

	for _, offer := range parseOffers(n.Offers) {
		price, ok := coercePrice(offer.Price)
		if !ok {
			price, ok = coercePrice(offer.LowPrice)
		}
		if !ok || !price.IsPositive() {
			continue
		}

		currency := strings.ToUpper(strings.TrimSpace(offer.PriceCurrency))
		if currency == "" {
			currency = domain.CurrencyGBP
		}

		return domain.PageExtract{
			Price:        price,
			Currency:     currency,
			Availability: mapAvailability(offer.Availability),
			Confidence:   jsonLDConfidence,
			Notes:        "schema.org offer",
		}, true
	}
	return domain.PageExtract{}, false
}

// isProductType accepts "@type": "Product" as a string or inside a list.
func isProductType(raw json.RawMessage) bool {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s == "Product"
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		for _, t := range list {
			if t == "Product" {
				return true
			}
		}
	}
	return false
}

// parseOffers handles "offers" as a single object or a list.
func parseOffers(raw json.RawMessage) []ldOffer {
	var one ldOffer
	if err := json.Unmarshal(raw, &one); err == nil {
		return []ldOffer{one}
	}
	var many []ldOffer
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

// coercePrice handles price as a JSON number or a string like "3.50".
func coercePrice(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Decimal{}, false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimPrefix(s, "£")))
		return d, err == nil
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return decimal.NewFromFloat(f), true
	}
	return decimal.Decimal{}, false
}

// mapAvailability maps schema.org availability URLs onto our states.
func mapAvailability(v string) domain.Availability {
	v = strings.ToLower(v)
	switch {
	case strings.Contains(v, "instock"), strings.Contains(v, "limitedavailability"), strings.Contains(v, "instoreonly"), strings.Contains(v, "onlineonly"):
		return domain.InStock
	case strings.Contains(v, "outofstock"), strings.Contains(v, "soldout"), strings.Contains(v, "discontinued"):
		return domain.OutOfStock
	case strings.Contains(v, "preorder"), strings.Contains(v, "presale"), strings.Contains(v, "backorder"):
		return domain.PreOrder
	default:
		return domain.Unknown
	}
}
