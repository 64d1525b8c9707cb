package vptree

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"
)

// Tree is a vantage-point tree over geographic points.
type Tree[T comparable] struct {
	root     *node[T]
	b        *builder
	cache    *DistanceCache
	metric   DistanceFunction
	capacity int
}

// New constructs an empty tree.
func New[T comparable](opts ...Option) (*Tree[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.capacity <= 0 {
		return nil, fmt.Errorf("vptree: capacity must be positive, got %d", o.capacity)
	}
	if o.cacheSize < 0 {
		return nil, fmt.Errorf("vptree: cache size must not be negative, got %d", o.cacheSize)
	}
	if o.distance == nil {
		return nil, fmt.Errorf("vptree: unsupported distance function %q", o.distanceID)
	}
	if o.source == nil {
		o.source = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Tree[T]{metric: o.distanceID, capacity: o.capacity}
	distance := o.distance
	if o.cacheSize > 0 {
		cache, err := NewDistanceCache(o.cacheSize)
		if err != nil {
			return nil, err
		}
		t.cache = cache
		distance = cache.Wrap(o.distance)
	}
	t.b = &builder{
		capacity: o.capacity,
		distance: distance,
		rnd:      rand.New(o.source),
		logger:   o.logger,
	}
	return t, nil
}

// Build constructs a tree holding points.
func Build[T comparable](points []Point[T], opts ...Option) (*Tree[T], error) {
	t, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	t.AddAll(points)
	return t, nil
}

// Distance returns the metric name, empty for custom functions.
func (t *Tree[T]) Distance() DistanceFunction { return t.metric }

// Capacity returns the leaf bucket size.
func (t *Tree[T]) Capacity() int { return t.capacity }

// Add inserts a single point.
func (t *Tree[T]) Add(point Point[T]) {
	t.AddAll([]Point[T]{point})
}

// AddAll inserts points and rebalances once for the whole batch.
func (t *Tree[T]) AddAll(points []Point[T]) {
	if len(points) == 0 {
		return
	}
	if t.root == nil {
		owned := make([]Point[T], len(points))
		copy(owned, points)
		t.root = newNode(owned, t.b)
		return
	}
	for _, p := range points {
		t.root.add(p, t.b)
	}
	t.root.initialize(t.b)
}

// Remove deletes one occurrence of point and reports whether it was present.
func (t *Tree[T]) Remove(point Point[T]) bool {
	return t.RemoveAll([]Point[T]{point}) > 0
}

// RemoveAll deletes one occurrence of each point, rebalancing once, and
// returns the number of points removed.
func (t *Tree[T]) RemoveAll(points []Point[T]) int {
	if t.root == nil {
		return 0
	}
	removed := 0
	for _, p := range points {
		if t.root.remove(p, t.b) {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	t.root.initialize(t.b)
	if t.root.size() == 0 {
		t.root = nil
	}
	return removed
}

// Contains reports whether point is indexed.
func (t *Tree[T]) Contains(point Point[T]) bool {
	if t.root == nil {
		return false
	}
	return t.root.contains(point, t.b)
}

// Clear removes every point and purges the distance cache.
func (t *Tree[T]) Clear() {
	t.root = nil
	if t.cache != nil {
		t.cache.Purge()
	}
}

// Size returns the number of indexed points.
func (t *Tree[T]) Size() int {
	if t.root == nil {
		return 0
	}
	return t.root.size()
}

// IsEmpty reports whether the tree holds no points.
func (t *Tree[T]) IsEmpty() bool { return t.Size() == 0 }

// Depth returns the height of the node tree, zero when empty.
func (t *Tree[T]) Depth() int {
	if t.root == nil {
		return 0
	}
	return t.root.depth()
}

// Points returns a snapshot of every indexed point in tree order.
func (t *Tree[T]) Points() []Point[T] {
	if t.root == nil {
		return nil
	}
	return t.root.appendPoints(make([]Point[T], 0, t.root.size()))
}

// Nearest returns the payload of the point closest to target.
func (t *Tree[T]) Nearest(target Coordinate) (T, bool) {
	result := t.KNearest(target, 1)
	if len(result) == 0 {
		var zero T
		return zero, false
	}
	return result[0], true
}

// KNearest returns up to k payloads ordered by ascending distance to target.
func (t *Tree[T]) KNearest(target Coordinate, k int) []T {
	c := t.collect(target, k)
	if c == nil {
		return nil
	}
	return c.Payloads()
}

// KNearestNeighbors returns up to k neighbors with their distances, ordered
// by ascending distance to target.
func (t *Tree[T]) KNearestNeighbors(target Coordinate, k int) []Neighbor[T] {
	c := t.collect(target, k)
	if c == nil {
		return nil
	}
	return c.Neighbors()
}

func (t *Tree[T]) collect(target Coordinate, k int) *NearestNeighborCollector[T] {
	if t.root == nil || k <= 0 {
		return nil
	}
	c := NewNearestNeighborCollector[T](target, k, t.b.distance)
	t.root.collect(c, t.b)
	return c
}

// CacheStats returns distance cache diagnostics; zero when caching is off.
func (t *Tree[T]) CacheStats() CacheStats {
	if t.cache == nil {
		return CacheStats{}
	}
	return t.cache.Stats()
}

// Hits returns the number of distance cache hits.
func (t *Tree[T]) Hits() uint64 { return t.CacheStats().Hits }

// Misses returns the number of distance cache misses.
func (t *Tree[T]) Misses() uint64 { return t.CacheStats().Misses }
