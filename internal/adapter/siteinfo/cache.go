package siteinfo

import (
	"context"
	"sync"

	"github.com/couchcryptid/precip-radial-etl/internal/domain"
	"github.com/couchcryptid/precip-radial-etl/internal/observability"
)

// CachedDirectory wraps a SiteDirectory with an in-memory LRU cache. The
// radar fleet is small, so even a modest cache stops repeat API traffic for
// the stations a deployment actually sees.
type CachedDirectory struct {
	inner   domain.SiteDirectory
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedDirectory creates a cache decorator around a site directory.
func NewCachedDirectory(inner domain.SiteDirectory, maxEntries int, metrics *observability.Metrics) *CachedDirectory {
	return &CachedDirectory{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedDirectory) Lookup(ctx context.Context, stationID string) (domain.Site, error) {
	if site, ok := c.cache.get(stationID); ok {
		c.metrics.SiteLookupCache.WithLabelValues("hit").Inc()
		return site, nil
	}
	c.metrics.SiteLookupCache.WithLabelValues("miss").Inc()

	site, err := c.inner.Lookup(ctx, stationID)
	if err != nil {
		return site, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if site.ID != "" {
		c.cache.put(stationID, site)
	}
	return site, nil
}

// lruCache is a simple thread-safe LRU cache for Sites.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Site
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Site, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Site{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Site) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
