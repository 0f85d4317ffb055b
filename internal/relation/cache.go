package relation

import (
	"sync"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

type cacheEntry struct {
	fields  []domain.TargetField
	expires time.Time
}

// Cache holds linked-database property lists for a short time, keyed by
// database id. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheClock sets the clock used for expiry.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a cache. A non-positive ttl uses the default.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = domain.DefaultRelationCacheTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached fields for a database. Expired entries are evicted.
func (c *Cache) Get(databaseID string) ([]domain.TargetField, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[databaseID]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, databaseID)
		return nil, false
	}
	return append([]domain.TargetField(nil), e.fields...), true
}

// Put stores fields for a database.
func (c *Cache) Put(databaseID string, fields []domain.TargetField) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[databaseID] = cacheEntry{
		fields:  append([]domain.TargetField(nil), fields...),
		expires: c.now().Add(c.ttl),
	}
}

// Len returns the number of entries, including ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
