package websearch

import (
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live for cached search results.
const DefaultCacheTTL = 1 * time.Hour

// cacheEntry holds cached search results and their expiration time.
type cacheEntry struct {
	results   []string
	expiresAt time.Time
}

// ResultCache is a thread-safe, in-memory TTL cache for search results,
// keyed by query. Entries are lazily expired on access.
type ResultCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
}

// NewResultCache creates a cache with the given default TTL.
func NewResultCache(defaultTTL time.Duration) *ResultCache {
	return &ResultCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves cached results for a query. Returns the results and true
// if found and not expired. Expired entries are removed on access.
func (resultCache *ResultCache) Get(query string) ([]string, bool) {
	resultCache.mu.RLock()
	entry, exists := resultCache.entries[query]
	resultCache.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		resultCache.mu.Lock()
		// Re-check in case another goroutine already replaced it.
		if current, stillExists := resultCache.entries[query]; stillExists && time.Now().After(current.expiresAt) {
			delete(resultCache.entries, query)
		}
		resultCache.mu.Unlock()
		return nil, false
	}

	return entry.results, true
}

// Set stores search results for a query with the default TTL.
func (resultCache *ResultCache) Set(query string, results []string) {
	resultCache.mu.Lock()
	resultCache.entries[query] = cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(resultCache.defaultTTL),
	}
	resultCache.mu.Unlock()
}

// Invalidate removes a specific query from the cache.
func (resultCache *ResultCache) Invalidate(query string) {
	resultCache.mu.Lock()
	delete(resultCache.entries, query)
	resultCache.mu.Unlock()
}

// Len returns the number of entries currently in the cache, including
// ones that have expired but not yet been removed.
func (resultCache *ResultCache) Len() int {
	resultCache.mu.RLock()
	count := len(resultCache.entries)
	resultCache.mu.RUnlock()
	return count
}
