package vptree

import (
	"log/slog"

	"golang.org/x/exp/rand"
)

// builder carries the settings shared by every node of one tree.
type builder struct {
	capacity int
	distance DistanceFunc
	rnd      *rand.Rand
	logger   *slog.Logger
}

// node is either a leaf holding a bucket of points, or an internal node with
// a vantage point, a threshold and two children. A node is internal iff
// closer is non-nil.
type node[T comparable] struct {
	points    []Point[T]
	vantage   Coordinate
	threshold float64
	closer    *node[T]
	farther   *node[T]
}

// newNode constructs a node owning points and splits it as needed.
func newNode[T comparable](points []Point[T], b *builder) *node[T] {
	n := &node[T]{points: points}
	n.initialize(b)
	return n
}

func (n *node[T]) leaf() bool { return n.closer == nil }

// initialize restores the node invariants after construction or mutation:
// internal nodes with an empty child are collapsed back into a leaf, and
// leaves over capacity are split when the points allow a real boundary.
func (n *node[T]) initialize(b *builder) {
	if !n.leaf() {
		if n.closer.size() == 0 || n.farther.size() == 0 {
			points := make([]Point[T], 0, n.size())
			points = n.closer.appendPoints(points)
			points = n.farther.appendPoints(points)
			n.points = points
			n.closer, n.farther = nil, nil
			n.initialize(b)
			return
		}
		n.closer.initialize(b)
		n.farther.initialize(b)
		return
	}
	if len(n.points) <= b.capacity {
		return
	}
	vantage := n.points[b.rnd.Intn(len(n.points))].Coordinate
	threshold := selectThreshold(vantage, n.points, b.distance, b.rnd)
	idx, ok := partitionPoints(vantage, n.points, threshold, b.distance)
	if !ok {
		b.logger.Debug("vptree_split_skipped", "points", len(n.points), "threshold", threshold)
		return
	}
	closer := make([]Point[T], idx)
	copy(closer, n.points[:idx])
	farther := make([]Point[T], len(n.points)-idx)
	copy(farther, n.points[idx:])
	n.vantage = vantage
	n.threshold = threshold
	n.points = nil
	n.closer = newNode(closer, b)
	n.farther = newNode(farther, b)
}

// route returns the child a coordinate belongs to.
func (n *node[T]) route(c Coordinate, b *builder) *node[T] {
	if b.distance(n.vantage, c) <= n.threshold {
		return n.closer
	}
	return n.farther
}

// add inserts point without rebalancing; callers initialize after a batch.
func (n *node[T]) add(point Point[T], b *builder) {
	for !n.leaf() {
		n = n.route(point.Coordinate, b)
	}
	n.points = append(n.points, point)
}

// remove deletes one occurrence of point and reports whether it was found.
func (n *node[T]) remove(point Point[T], b *builder) bool {
	for !n.leaf() {
		n = n.route(point.Coordinate, b)
	}
	for i := range n.points {
		if n.points[i] == point {
			last := len(n.points) - 1
			copy(n.points[i:], n.points[i+1:])
			var zero Point[T]
			n.points[last] = zero
			n.points = n.points[:last]
			return true
		}
	}
	return false
}

func (n *node[T]) contains(point Point[T], b *builder) bool {
	for !n.leaf() {
		n = n.route(point.Coordinate, b)
	}
	for i := range n.points {
		if n.points[i] == point {
			return true
		}
	}
	return false
}

func (n *node[T]) size() int {
	if n.leaf() {
		return len(n.points)
	}
	return n.closer.size() + n.farther.size()
}

func (n *node[T]) depth() int {
	if n.leaf() {
		return 1
	}
	return 1 + max(n.closer.depth(), n.farther.depth())
}

func (n *node[T]) appendPoints(dst []Point[T]) []Point[T] {
	if n.leaf() {
		return append(dst, n.points...)
	}
	dst = n.closer.appendPoints(dst)
	return n.farther.appendPoints(dst)
}

// collect offers candidates to the collector, visiting the side the query
// falls on first and the other side only when the current search radius
// crosses the threshold.
func (n *node[T]) collect(c *NearestNeighborCollector[T], b *builder) {
	if n.leaf() {
		for i := range n.points {
			c.Offer(n.points[i])
		}
		return
	}
	dvq := b.distance(n.vantage, c.Query())
	if dvq <= n.threshold {
		n.closer.collect(c, b)
		if c.bound() > n.threshold-dvq {
			n.farther.collect(c, b)
		}
		return
	}
	n.farther.collect(c, b)
	if dvq-n.threshold <= c.bound() {
		n.closer.collect(c, b)
	}
}
