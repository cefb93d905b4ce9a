// Package cache memoizes query results for the lifetime of an engine.
//
// The engine is immutable after build, so entries never need invalidation;
// the only policy decisions are synchronization (the cache is internally
// mutex-guarded, so concurrent readers are safe) and bounding. With
// capacity 0 the cache grows without limit, matching the original engine's
// process-lifetime behavior; a positive capacity turns it into an LRU for
// long-lived services.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/nanocube/resource"
)

// Cache is a mutex-guarded memo table keyed by canonical query signature.
type Cache struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   string
	value any
	size  int64
}

// New creates a cache. capacity is the maximum number of entries; 0 means
// unbounded. If rc is non-nil, entry sizes are charged against its memory
// budget and entries the budget rejects are simply not cached.
func New(capacity int, rc *resource.Controller) *Cache {
	return &Cache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns the cached result for the signature, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores a result under the signature. sizeBytes is the approximate
// memory footprint charged to the resource controller.
func (c *Cache) Set(key string, value any, sizeBytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		// Every signature maps to one immutable result, so a re-insert
		// carries the same value; just refresh recency.
		c.evictList.MoveToFront(ent)
		return
	}

	if c.capacity > 0 {
		for c.evictList.Len() >= c.capacity {
			c.removeOldest()
		}
	}

	if !c.rc.TryAcquireMemory(sizeBytes) {
		return
	}

	ent := &entry{key: key, value: value, size: sizeBytes}
	c.items[key] = c.evictList.PushFront(ent)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) removeOldest() {
	e := c.evictList.Back()
	if e == nil {
		return
	}
	c.evictList.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	c.rc.ReleaseMemory(ent.size)
}
