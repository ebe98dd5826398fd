// Package cache memoizes similarity analyses by content hash of the
// normalized input record, with TTL eviction. A miss is a normal outcome,
// not an error; backend failures degrade to misses.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

const keyPrefix = "score_cache:"

// Entry is one cached analysis with its creation timestamp. An entry is
// stale once now - CreatedAt >= ttl.
type Entry struct {
	Analysis  domain.SimilarityAnalysis `json:"analysis"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Backend is the storage layer under the TTL cache. Keys may return nil
// when the backend expires entries server-side and cannot enumerate.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Purge(ctx context.Context) error
}

// Cache is the TTL result cache. The get-then-set sequence for one key is
// not synchronized here; callers serialize it per key (see KeyMutex).
type Cache struct {
	backend    Backend
	ttl        time.Duration
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a cache. cacheTotal is a counter vec with label "result"
// ("hit"/"miss"), passed explicitly; nil disables the metric.
func New(backend Backend, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		backend:    backend,
		ttl:        ttl,
		now:        time.Now,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithClock overrides the clock. Tests only.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Key returns the content-addressed cache key for a record: a stable hash
// over the canonical JSON encoding of the normalized record.
func Key(rec domain.ClientRecord) string {
	data, err := json.Marshal(rec.Normalized())
	if err != nil {
		// Marshal of a plain struct cannot fail; keep a deterministic fallback.
		return keyPrefix + rec.ID
	}
	return keyPrefix + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Get returns the cached analysis for the record if present and fresh.
// A stale entry is evicted and reported as absent.
func (c *Cache) Get(ctx context.Context, rec domain.ClientRecord) (domain.SimilarityAnalysis, bool) {
	key := Key(rec)

	e, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return domain.SimilarityAnalysis{}, false
	}
	if !ok {
		c.inc("miss")
		return domain.SimilarityAnalysis{}, false
	}
	if c.expired(e) {
		if err := c.backend.Delete(ctx, key); err != nil {
			c.logger.Warn("cache evict failed", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return domain.SimilarityAnalysis{}, false
	}

	c.inc("hit")
	return e.Analysis, true
}

// Set stores or overwrites the analysis for the record.
func (c *Cache) Set(ctx context.Context, rec domain.ClientRecord, a domain.SimilarityAnalysis) {
	key := Key(rec)
	e := Entry{Analysis: a, CreatedAt: c.now()}
	if err := c.backend.Set(ctx, key, e, c.ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Sweep proactively evicts every expired entry and returns the eviction
// count. Backends that expire server-side report no keys and sweep to 0.
func (c *Cache) Sweep(ctx context.Context) int {
	keys, err := c.backend.Keys(ctx)
	if err != nil {
		c.logger.Warn("cache sweep failed", zap.Error(err))
		return 0
	}

	evicted := 0
	for _, key := range keys {
		e, ok, err := c.backend.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		if c.expired(e) {
			if err := c.backend.Delete(ctx, key); err == nil {
				evicted++
			}
		}
	}
	return evicted
}

// Clear drops every entry.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.backend.Purge(ctx); err != nil {
		c.logger.Warn("cache clear failed", zap.Error(err))
	}
}

func (c *Cache) expired(e Entry) bool {
	return c.now().Sub(e.CreatedAt) >= c.ttl
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
