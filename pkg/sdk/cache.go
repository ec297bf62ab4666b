package sdk

import (
	"sync"
	"time"
)

// cacheEntry pairs a fetched record with the time it was stored.
type cacheEntry struct {
	record   FlagRecord
	storedAt time.Time
}

// flagCache is a keyed TTL store. Entries expire lazily: an entry older
// than ttl is deleted on the read that observes it, never by a background
// sweep. A stale entry is indistinguishable from an absent one.
type flagCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// now is swappable in tests
	now func() time.Time
}

func newFlagCache(ttl time.Duration) *flagCache {
	return &flagCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the record for key if present and fresh. An expired entry
// is purged and reported as a miss.
func (c *flagCache) get(key string) (FlagRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return FlagRecord{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return FlagRecord{}, false
	}
	return entry.record, true
}

// set stores record under key, resetting its storedAt timestamp.
func (c *flagCache) set(key string, record FlagRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{record: record, storedAt: c.now()}
}

func (c *flagCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *flagCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
