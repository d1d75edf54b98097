package engine

import (
	"sync"
	"time"

	"github.com/birddograbbit/magic8-companion/internal/gex"
)

type cacheEntry struct {
	result    *gex.AnalysisResult
	expiresAt time.Time
}

// ResultCache is the TTL cache for analysis results, keyed by symbol.
// Entries are evicted lazily on the next lookup past expiry; there is no
// background sweeper.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached result for symbol if it has not expired.
func (c *ResultCache) Get(symbol string, now time.Time) (*gex.AnalysisResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under write lock before evicting
		if cur, ok := c.entries[symbol]; ok && now.After(cur.expiresAt) {
			delete(c.entries, symbol)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.result, true
}

// Put stores a result with the cache TTL.
func (c *ResultCache) Put(symbol string, result *gex.AnalysisResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = cacheEntry{
		result:    result,
		expiresAt: now.Add(c.ttl),
	}
}

// Len returns the number of entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
