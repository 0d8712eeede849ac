package domain

import "time"

// DefaultCacheTTL is how long a cached comparison stays live.
const DefaultCacheTTL = 2 * time.Hour

// CacheEntry is a stored comparison result set, keyed by normalized query + limit.
type CacheEntry struct {
	QueryNormalized string
	QueryOriginal   string
	LimitRequested  int
	Results         []VerifiedResult
	HitCount        int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ExpiresAt       time.Time
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Age returns how long ago the entry was created.
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
