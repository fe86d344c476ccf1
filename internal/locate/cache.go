package locate

import (
	"sync"
	"time"

	"github.com/xkilldash9x/wayfarer/api/schemas"
)

// cacheEntry pins a resolution to the navigation epoch it was made in.
type cacheEntry struct {
	elem    schemas.ResolvedElement
	epoch   uint64
	expires time.Time
}

// resolutionCache is the opt-in short-lived cache keyed by (scope, spec).
// Entries die on TTL expiry or when the page navigates, whichever first.
type resolutionCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newResolutionCache(ttl time.Duration) *resolutionCache {
	return &resolutionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *resolutionCache) get(key string, epoch uint64) (schemas.ResolvedElement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return schemas.ResolvedElement{}, false
	}
	if entry.epoch != epoch || time.Now().After(entry.expires) {
		delete(c.entries, key)
		return schemas.ResolvedElement{}, false
	}
	return entry.elem, true
}

func (c *resolutionCache) put(key string, elem schemas.ResolvedElement, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{elem: elem, epoch: epoch, expires: time.Now().Add(c.ttl)}
}

func (c *resolutionCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
