package vptree

import (
	"container/heap"
	"math"
	"sort"
)

// Neighbor describes a candidate returned by a kNN search.
type Neighbor[T comparable] struct {
	Point    Point[T]
	Distance float64
	seq      int
}

// neighbors implements heap.Interface as a max-heap on distance. Among equal
// distances the later offer ranks higher so it is evicted first.
type neighbors[T comparable] []Neighbor[T]

func (h neighbors[T]) Len() int { return len(h) }
func (h neighbors[T]) Less(i, j int) bool {
	if h[i].Distance != h[j].Distance {
		return h[i].Distance > h[j].Distance
	}
	return h[i].seq > h[j].seq
}
func (h neighbors[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *neighbors[T]) Push(x interface{}) {
	*h = append(*h, x.(Neighbor[T]))
}

func (h *neighbors[T]) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// NearestNeighborCollector retains the k points closest to a query point.
type NearestNeighborCollector[T comparable] struct {
	query    Coordinate
	k        int
	distance DistanceFunc
	heap     neighbors[T]
	offered  int
}

// NewNearestNeighborCollector creates a collector for the k nearest points to
// query under distance.
func NewNearestNeighborCollector[T comparable](query Coordinate, k int, distance DistanceFunc) *NearestNeighborCollector[T] {
	if k < 0 {
		k = 0
	}
	return &NearestNeighborCollector[T]{
		query:    query,
		k:        k,
		distance: distance,
		heap:     make(neighbors[T], 0, k),
	}
}

// Query returns the query coordinate.
func (c *NearestNeighborCollector[T]) Query() Coordinate { return c.query }

// Offer considers point as a candidate. Once k candidates are retained, a new
// point replaces the farthest only when strictly closer.
func (c *NearestNeighborCollector[T]) Offer(point Point[T]) {
	if c.k == 0 {
		return
	}
	seq := c.offered
	c.offered++
	d := c.distance(c.query, point.Coordinate)
	if len(c.heap) < c.k {
		heap.Push(&c.heap, Neighbor[T]{Point: point, Distance: d, seq: seq})
		return
	}
	if d < c.heap[0].Distance {
		heap.Pop(&c.heap)
		heap.Push(&c.heap, Neighbor[T]{Point: point, Distance: d, seq: seq})
	}
}

// Len returns the number of retained candidates.
func (c *NearestNeighborCollector[T]) Len() int { return len(c.heap) }

// Full reports whether k candidates are retained.
func (c *NearestNeighborCollector[T]) Full() bool { return len(c.heap) >= c.k }

// FarthestDistance returns the distance of the farthest retained candidate.
func (c *NearestNeighborCollector[T]) FarthestDistance() (float64, bool) {
	if len(c.heap) == 0 {
		return 0, false
	}
	return c.heap[0].Distance, true
}

// bound is the search radius used for pruning: infinite until the
// collector is full.
func (c *NearestNeighborCollector[T]) bound() float64 {
	if !c.Full() || len(c.heap) == 0 {
		return math.Inf(1)
	}
	return c.heap[0].Distance
}

// Neighbors returns the retained candidates ascending by distance; equal
// distances keep their offer order.
func (c *NearestNeighborCollector[T]) Neighbors() []Neighbor[T] {
	result := make([]Neighbor[T], len(c.heap))
	copy(result, c.heap)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Distance != result[j].Distance {
			return result[i].Distance < result[j].Distance
		}
		return result[i].seq < result[j].seq
	})
	return result
}

// Payloads returns the retained payloads ascending by distance.
func (c *NearestNeighborCollector[T]) Payloads() []T {
	ns := c.Neighbors()
	result := make([]T, len(ns))
	for i, n := range ns {
		result[i] = n.Point.Payload
	}
	return result
}
