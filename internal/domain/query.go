package domain

import (
	"fmt"
	"strings"
)

// Query is a single price comparison request.
type Query struct {
	Text        string
	Limit       int
	BypassCache bool
}

// Normalized returns the canonical form of the query text:
// lowercased, trimmed, with runs of whitespace collapsed to one space.
func (q Query) Normalized() string {
	return strings.Join(strings.Fields(strings.ToLower(q.Text)), " ")
}

// CacheKey combines the normalized text and limit. Requests that differ
// only in whitespace or casing share a cache entry.
func (q Query) CacheKey() string {
	return fmt.Sprintf("%s|%d", q.Normalized(), q.Limit)
}

// Validate checks the query for emptiness and limit sanity.
func (q Query) Validate(maxLimit int) error {
	if q.Normalized() == "" {
		return ErrEmptyQuery
	}
	if q.Limit <= 0 || q.Limit > maxLimit {
		return fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidLimit, maxLimit, q.Limit)
	}
	return nil
}
