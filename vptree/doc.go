// Package vptree implements a vantage-point tree over geographic coordinates.
// Points carry an opaque comparable payload; the tree supports incremental
// insertion and removal, k-nearest-neighbor queries, and memoizes pairwise
// distances in a bounded LRU cache.
//
// A Tree is not safe for concurrent use. Callers sharing one tree across
// goroutines must serialize access themselves.
package vptree
