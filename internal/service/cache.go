// Package service orchestrates repositories, the prediction engine, and
// caching behind the public API.
package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/matchup-engine/internal/metrics"
	"github.com/yourusername/matchup-engine/internal/models"
)

// CacheKey uniquely identifies a cached comparison. Order matters: the
// prediction is expressed from team A's perspective.
type CacheKey struct {
	TeamAID uuid.UUID
	TeamBID uuid.UUID
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.TeamAID, k.TeamBID)
}

// CachedComparison is the unit stored in the cache: a prediction together
// with its explanation. Confidence is embedded in the prediction and is
// never cached on its own.
type CachedComparison struct {
	Prediction  *models.MatchPrediction
	Explanation *models.MatchExplanation
}

// ComparisonCache provides in-memory caching for served comparisons. The TTL
// bounds staleness against upstream ranking refreshes.
type ComparisonCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewComparisonCache creates a new comparison cache
func NewComparisonCache(ttl time.Duration, maxSize int) *ComparisonCache {
	return &ComparisonCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached comparison
func (cc *ComparisonCache) Get(key CacheKey) *CachedComparison {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if result, found := cc.cache.Get(key.String()); found {
		if comparison, ok := result.(*CachedComparison); ok {
			cc.hitCount++
			cc.updateMetrics()
			return comparison
		}
	}

	cc.missCount++
	cc.updateMetrics()
	return nil
}

// Set stores a comparison in cache
func (cc *ComparisonCache) Set(key CacheKey, comparison *CachedComparison) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.cache.ItemCount() >= cc.maxSize {
		cc.cache.DeleteExpired()
	}

	cc.cache.Set(key.String(), comparison, cc.ttl)
	metrics.PredictionCacheSize.Set(float64(cc.cache.ItemCount()))
}

// Flush clears the entire cache, typically after an upstream ranking refresh.
func (cc *ComparisonCache) Flush() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.cache.Flush()
	metrics.PredictionCacheSize.Set(0)
}

// Stats returns cache statistics
func (cc *ComparisonCache) Stats() (hits, misses uint64, ratio float64) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	hits = cc.hitCount
	misses = cc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (cc *ComparisonCache) ItemCount() int {
	return cc.cache.ItemCount()
}

// updateMetrics refreshes Prometheus gauges. Callers hold the lock.
func (cc *ComparisonCache) updateMetrics() {
	total := cc.hitCount + cc.missCount
	if total > 0 {
		metrics.PredictionCacheHitRatio.Set(float64(cc.hitCount) / float64(total))
	}
}
