package vptree

import (
	"container/list"
	"fmt"
)

// DefaultCacheSize is the number of distance pairs retained by a tree cache.
const DefaultCacheSize = 4096

// CacheStats reports distance cache diagnostics.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Entries  int
	Capacity int
}

// pairKey is an unordered coordinate pair: a always sorts before b.
type pairKey struct {
	a, b Coordinate
}

func newPairKey(p1, p2 Coordinate) pairKey {
	if p2.Lat < p1.Lat || (p2.Lat == p1.Lat && p2.Lon < p1.Lon) {
		p1, p2 = p2, p1
	}
	return pairKey{a: p1, b: p2}
}

type cacheEntry struct {
	key      pairKey
	distance float64
}

// DistanceCache memoizes pairwise distances keyed by unordered coordinate
// pairs, evicting the least recently used pair once capacity is exceeded.
type DistanceCache struct {
	capacity int
	lst      *list.List
	dict     map[pairKey]*list.Element
	hits     uint64
	misses   uint64
}

// NewDistanceCache creates a cache retaining up to capacity pairs.
func NewDistanceCache(capacity int) (*DistanceCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("vptree: distance cache capacity must be positive, got %d", capacity)
	}
	return &DistanceCache{
		capacity: capacity,
		lst:      list.New(),
		dict:     make(map[pairKey]*list.Element, capacity),
	}, nil
}

// GetOrCompute returns the cached distance between p1 and p2, calling fn on a
// miss. (p1, p2) and (p2, p1) share one slot, and fn always receives the pair
// in key order so a recomputed value matches the evicted one.
func (c *DistanceCache) GetOrCompute(p1, p2 Coordinate, fn DistanceFunc) float64 {
	key := newPairKey(p1, p2)
	if e, ok := c.dict[key]; ok {
		c.hits++
		c.lst.MoveToFront(e)
		return e.Value.(cacheEntry).distance
	}
	c.misses++
	d := fn(key.a, key.b)
	c.dict[key] = c.lst.PushFront(cacheEntry{key: key, distance: d})
	for c.lst.Len() > c.capacity {
		back := c.lst.Back()
		delete(c.dict, back.Value.(cacheEntry).key)
		c.lst.Remove(back)
	}
	return d
}

// Wrap returns a DistanceFunc that routes every call through the cache.
func (c *DistanceCache) Wrap(fn DistanceFunc) DistanceFunc {
	return func(a, b Coordinate) float64 {
		return c.GetOrCompute(a, b, fn)
	}
}

// Hits returns the number of lookups served from the cache.
func (c *DistanceCache) Hits() uint64 { return c.hits }

// Misses returns the number of lookups that invoked the distance function.
func (c *DistanceCache) Misses() uint64 { return c.misses }

// Len returns the number of cached pairs.
func (c *DistanceCache) Len() int { return c.lst.Len() }

// Purge drops every cached pair. Hit and miss counters are preserved.
func (c *DistanceCache) Purge() {
	c.lst.Init()
	c.dict = make(map[pairKey]*list.Element, c.capacity)
}

// Stats returns a snapshot of the cache counters.
func (c *DistanceCache) Stats() CacheStats {
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: c.lst.Len(), Capacity: c.capacity}
}
