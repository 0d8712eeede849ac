// Package urlfilter rejects search hits that can never become verified
// results: blocked domains and category/listing/search pages.
package urlfilter

import (
	"net/url"
	"strings"

	"github.com/comparely/pricedex/internal/domain"
)

// Filter is a pure, stateless URL acceptability check. Safe for
// concurrent use once built.
type Filter struct {
	blocked map[string]struct{}
}

// New builds a filter from the built-in denylist, the operator's own
// storefront domain, and any configured extras.
func New(extra ...string) *Filter {
	blocked := make(map[string]struct{}, len(BlockedDomains)+len(extra)+1)
	for _, d := range BlockedDomains {
		blocked[normalizeDomain(d)] = struct{}{}
	}
	blocked[normalizeDomain(domain.StorefrontDomain)] = struct{}{}
	for _, d := range extra {
		if d != "" {
			blocked[normalizeDomain(d)] = struct{}{}
		}
	}
	return &Filter{blocked: blocked}
}

// IsAcceptable reports whether the URL may enter the pipeline:
// parseable, not on the denylist, and a product-detail page rather
// than a category/listing/search page.
func (f *Filter) IsAcceptable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if f.isBlockedHost(u.Hostname()) {
		return false
	}
	return !isListingPage(u)
}

// isBlockedHost matches the host and all parent domains against the
// denylist, so deals.example.com is caught by a blocked example.com.
func (f *Filter) isBlockedHost(host string) bool {
	host = normalizeDomain(host)
	for host != "" {
		if _, ok := f.blocked[host]; ok {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return false
}

// Path segments that mark a multi-product page.
var listingSegments = []string{
	"/category/",
	"/categories/",
	"/collections/",
	"/browse/",
	"/brands/",
	"/departments/",
	"/c/",
	"/search",
	"/webapp/wcs/stores", // legacy storefront category routers
}

// Product-path conventions that override a listing-looking prefix.
var productExceptions = []string{
	"/shop/product/",
	"/product/",
	"/products/",
	"/p/",
	"/pd/",
	"/item/",
}

func isListingPage(u *url.URL) bool {
	path := strings.ToLower(u.EscapedPath())
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	for _, exc := range productExceptions {
		if strings.Contains(path, exc) {
			return false
		}
	}

	for _, seg := range listingSegments {
		if strings.Contains(path, seg) {
			return true
		}
	}

	// Bare /shop/ without a product segment is a storefront landing page.
	if strings.HasPrefix(path, "/shop/") && !strings.Contains(path, "/product") {
		return true
	}

	// Search result pages: /s?q=... or explicit search query params.
	if path == "/s/" && u.RawQuery != "" {
		return true
	}
	q := u.Query()
	for _, param := range []string{"q", "search", "searchterm", "query"} {
		if q.Get(param) != "" {
			return true
		}
	}

	return false
}

func normalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
}
