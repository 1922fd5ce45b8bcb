// internal/cache/cache.go
package cache

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type entry struct {
	payload  json.RawMessage
	storedAt time.Time
}

// Cache maps a normalized request key to a previously fetched payload with a
// time-to-live. Eviction is lazy: a stale entry is removed on the first Get
// that observes it; there is no background sweep and no size bound.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the payload stored under key while its age is below the TTL.
// It returns false both for never-seen keys and for expired entries; an
// expired entry is deleted as a side effect.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		log.Debugf("Cache expired: %s", key)
		return nil, false
	}
	log.Debugf("Cache hit: %s", key)
	return e.payload, true
}

// Put stores payload under key, replacing any previous entry.
func (c *Cache) Put(key string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, storedAt: c.now()}
}

// Flush discards all entries. Called when the owning session closes.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
