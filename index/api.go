package index

import "github.com/viant/citymap/vptree"

// Index defines a geographic nearest-neighbor index with basic lifecycle
// methods. It enables building from (id, coordinate) pairs, kNN queries, and
// binary serialization for persistence.
type Index interface {
	// Build constructs the index from the given ids and coordinates.
	// ids and coords must have the same length.
	Build(ids []string, coords []vptree.Coordinate) error

	// Query runs a kNN search against the index and returns up to k matches
	// as parallel slices of ids and distances, nearest first. Distances are
	// in the unit of the index metric: meters for great-circle metrics.
	Query(query vptree.Coordinate, k int) (ids []string, distances []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
