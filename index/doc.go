// Package index defines a minimal abstraction for geographic point indexes
// that can be built from (id, coordinate) pairs, queried for kNN, and
// serialized for persistence. Implementations in this module include a
// brute-force baseline and a vantage-point tree.
package index
