package service

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/salonsuite/bella/domain/calendar"
)

// cachedSlot is what the content cache stores under one (niche, city, day)
// key.
type cachedSlot struct {
	entry  calendar.Entry
	method calendar.Method
}

// ContentCache memoizes generated entries one day slot at a time, so runs
// of different lengths for the same niche and city reuse each other's days
// within the TTL.
type ContentCache struct {
	cache *gocache.Cache
}

// NewContentCache creates a ContentCache with the given TTL.
func NewContentCache(ttl time.Duration) *ContentCache {
	return &ContentCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached entry for a day key, if present.
func (c *ContentCache) Get(key string) (calendar.Entry, calendar.Method, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return calendar.Entry{}, "", false
	}
	slot, ok := value.(cachedSlot)
	if !ok {
		return calendar.Entry{}, "", false
	}
	return slot.entry, slot.method, true
}

// Set stores a day entry under the key with the default TTL.
func (c *ContentCache) Set(key string, entry calendar.Entry, method calendar.Method) {
	c.cache.SetDefault(key, cachedSlot{entry: entry, method: method})
}

// Flush drops every cached entry.
func (c *ContentCache) Flush() {
	c.cache.Flush()
}

// Len returns how many day slots are cached.
func (c *ContentCache) Len() int {
	return c.cache.ItemCount()
}
