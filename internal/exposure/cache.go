package exposure

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// HashIdentifier produces the cache/rate-limit key for an identifier.
// Only this hash may appear in memory keys and logs, never the raw value.
func HashIdentifier(identifier string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(identifier))))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	found   bool
	count   int
	writeAt time.Time
}

// Cache is an in-memory TTL cache for exposure lookup results, keyed by the
// identifier hash. It has no capacity bound; entries are small and
// TTL-bounded, which is acceptable at current load but would need an external
// store with eviction before sustained production traffic.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached result for the identifier hash. Expired entries are
// evicted and reported as a miss.
func (c *Cache) Get(identifierHash string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[identifierHash]
	if !ok {
		return Result{}, false
	}

	if time.Since(entry.writeAt) > c.ttl {
		delete(c.entries, identifierHash)
		return Result{}, false
	}

	return Result{Found: entry.found, Count: entry.count, Cached: true}, true
}

func (c *Cache) Put(identifierHash string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[identifierHash] = cacheEntry{
		found:   result.Found,
		count:   result.Count,
		writeAt: time.Now(),
	}
}

// Len reports the number of live entries, for monitoring
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
