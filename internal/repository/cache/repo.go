// Package cache persists comparison results keyed by normalized query + limit.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/db"
	"github.com/comparely/pricedex/internal/domain"
	"github.com/comparely/pricedex/internal/logger"
)

// store is the consumer interface for cache operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Del(ctx context.Context, key string) error
}

// Repo stores cache entries as JSON blobs with a sidecar hit counter.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a cache repository. prefix namespaces all keys.
func New(s store, prefix string, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	return &Repo{store: s, prefix: prefix, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

// TTL returns the configured entry lifetime.
func (r *Repo) TTL() time.Duration { return r.ttl }

// Get returns the live entry for the query and bumps its hit counter.
// Returns domain.ErrCacheMiss for absent or expired entries.
func (r *Repo) Get(ctx context.Context, q domain.Query) (domain.CacheEntry, error) {
	key := r.entryKey(q)

	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.CacheEntry{}, domain.ErrCacheMiss
		}
		return domain.CacheEntry{}, fmt.Errorf("cache get %s: %w", key, err)
	}

	var dto entryDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		// A corrupt blob is treated as a miss; the next pipeline run overwrites it.
		logger.FromContext(ctx).Warn("corrupt cache entry", zap.String("key", key), zap.Error(err))
		return domain.CacheEntry{}, domain.ErrCacheMiss
	}

	entry, err := fromDTO(dto)
	if err != nil {
		logger.FromContext(ctx).Warn("unreadable cache entry", zap.String("key", key), zap.Error(err))
		return domain.CacheEntry{}, domain.ErrCacheMiss
	}

	now := r.now()
	if entry.Expired(now) {
		return domain.CacheEntry{}, domain.ErrCacheMiss
	}

	entry.HitCount = r.bumpHits(ctx, q)
	entry.UpdatedAt = now
	r.touch(ctx, key, entry)
	return entry, nil
}

// touch persists the bumped UpdatedAt without shifting the expiry.
// Best effort: a stale timestamp never fails the read.
func (r *Repo) touch(ctx context.Context, key string, entry domain.CacheEntry) {
	remaining := entry.ExpiresAt.Sub(entry.UpdatedAt)
	if remaining <= 0 {
		return
	}
	data, err := json.Marshal(toDTO(entry))
	if err != nil {
		logger.FromContext(ctx).Warn("failed to marshal touched entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.store.SetWithTTL(ctx, key, data, remaining); err != nil {
		logger.FromContext(ctx).Warn("failed to touch cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Upsert writes the entry under its key with the configured TTL and
// resets the hit counter. Last writer wins across racing requests.
func (r *Repo) Upsert(ctx context.Context, entry domain.CacheEntry) error {
	q := domain.Query{Text: entry.QueryNormalized, Limit: entry.LimitRequested}

	data, err := json.Marshal(toDTO(entry))
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := r.store.SetWithTTL(ctx, r.entryKey(q), data, r.ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	// A fresh entry starts from zero hits. Best effort: a stale counter
	// only skews the hit statistic, never correctness.
	if err := r.store.Del(ctx, r.hitsKey(q)); err != nil {
		logger.FromContext(ctx).Warn("failed to reset hit counter", zap.Error(err))
	}
	return nil
}

// bumpHits increments the sidecar counter and returns the new count.
// Counter failures degrade to 0, never to a request error.
func (r *Repo) bumpHits(ctx context.Context, q domain.Query) int64 {
	key := r.hitsKey(q)

	n, err := r.store.IncrBy(ctx, key, 1)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to bump hit counter", zap.String("key", key), zap.Error(err))
		return 0
	}
	// Counter expires with its entry. NX keeps the original deadline.
	if err := r.store.Expire(ctx, key, r.ttl, true); err != nil {
		logger.FromContext(ctx).Warn("failed to expire hit counter", zap.String("key", key), zap.Error(err))
	}
	return n
}

func (r *Repo) entryKey(q domain.Query) string {
	return r.prefix + "cmp:" + hashKey(q.CacheKey())
}

func (r *Repo) hitsKey(q domain.Query) string {
	return r.prefix + "cmp_hits:" + hashKey(q.CacheKey())
}

func hashKey(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
