package refrate

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"landed-cost/core/types"
)

// Cache memoizes resolved reference rates with a TTL. It exists as an
// explicit object with defined expiry and locked shared access rather
// than ambient mutable state.
type Cache struct {
	source Source
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry

	// now is swappable for expiry tests
	now func() time.Time
}

type cacheEntry struct {
	rate    types.ReferenceRate
	expires time.Time
}

// NewCache wraps a rate source with TTL memoization
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetRate returns the cached rate when fresh, otherwise resolves and
// stores it. Errors are never cached.
func (c *Cache) GetRate(zoneCode string, weightKg decimal.Decimal) (types.ReferenceRate, error) {
	key := zoneCode + "|" + weightKg.String()

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.rate, nil
	}
	c.mu.Unlock()

	rate, err := c.source.GetRate(zoneCode, weightKg)
	if err != nil {
		return types.ReferenceRate{}, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{rate: rate, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return rate, nil
}

// Purge drops every cached entry
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
