package simpleblog

import (
	"sync"
	"time"
)

// profileCache is an optional read-through cache for identity-to-profile
// lookups with a fixed time-based expiry. It is not authoritative: entries
// may be stale for up to ttl, and writes to a profile invalidate its entry.
// A nil *profileCache is a valid, disabled cache.
type profileCache struct {
	mu      sync.RWMutex
	entries map[string]profileCacheEntry
	ttl     time.Duration
}

type profileCacheEntry struct {
	profile Profile
	fetched time.Time
}

func newProfileCache(ttl time.Duration) *profileCache {
	return &profileCache{
		entries: make(map[string]profileCacheEntry),
		ttl:     ttl,
	}
}

func (c *profileCache) get(identity string) (*Profile, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[identity]
	c.mu.RUnlock()
	if !ok || time.Since(entry.fetched) >= c.ttl {
		return nil, false
	}
	p := entry.profile
	return &p, true
}

func (c *profileCache) put(identity string, profile *Profile) {
	if c == nil || profile == nil {
		return
	}
	c.mu.Lock()
	c.entries[identity] = profileCacheEntry{profile: *profile, fetched: time.Now()}
	c.mu.Unlock()
}

func (c *profileCache) invalidate(identity string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, identity)
	c.mu.Unlock()
}
