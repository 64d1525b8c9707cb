package vp

import (
	"fmt"

	"github.com/viant/citymap/index/bruteforce"
	"github.com/viant/citymap/vptree"
)

// Index implements a geographic kNN index using a VP-tree to prune search.
// Ids are payloads, so the same id may appear at several coordinates.
type Index struct {
	opts []vptree.Option
	tree *vptree.Tree[string]
}

// New creates an empty index; opts configure the underlying tree.
func New(opts ...vptree.Option) (*Index, error) {
	tree, err := vptree.New[string](opts...)
	if err != nil {
		return nil, err
	}
	return &Index{opts: opts, tree: tree}, nil
}

func (i *Index) ensureTree() error {
	if i.tree != nil {
		return nil
	}
	tree, err := vptree.New[string](i.opts...)
	if err != nil {
		return err
	}
	i.tree = tree
	return nil
}

// Build replaces the index contents with ids and coords.
func (i *Index) Build(ids []string, coords []vptree.Coordinate) error {
	if len(ids) != len(coords) {
		return fmt.Errorf("vp: ids/coords length mismatch: %d != %d", len(ids), len(coords))
	}
	if err := i.ensureTree(); err != nil {
		return err
	}
	i.tree.Clear()
	i.tree.AddAll(points(ids, coords))
	return nil
}

// Add inserts additional points without rebuilding the tree.
func (i *Index) Add(ids []string, coords []vptree.Coordinate) error {
	if len(ids) != len(coords) {
		return fmt.Errorf("vp: ids/coords length mismatch: %d != %d", len(ids), len(coords))
	}
	if err := i.ensureTree(); err != nil {
		return err
	}
	i.tree.AddAll(points(ids, coords))
	return nil
}

// Remove deletes the given (id, coordinate) pairs and returns how many were
// present.
func (i *Index) Remove(ids []string, coords []vptree.Coordinate) (int, error) {
	if len(ids) != len(coords) {
		return 0, fmt.Errorf("vp: ids/coords length mismatch: %d != %d", len(ids), len(coords))
	}
	if i.tree == nil {
		return 0, nil
	}
	return i.tree.RemoveAll(points(ids, coords)), nil
}

// Len returns the number of indexed points.
func (i *Index) Len() int {
	if i.tree == nil {
		return 0
	}
	return i.tree.Size()
}

// Tree exposes the underlying tree, e.g. for cache diagnostics.
func (i *Index) Tree() *vptree.Tree[string] { return i.tree }

// Query returns up to k ids ordered by ascending distance, measured with the
// tree metric (meters for haversine and s2, degrees for euclidean). k <= 0
// returns every point.
func (i *Index) Query(query vptree.Coordinate, k int) ([]string, []float64, error) {
	if i.tree == nil || i.tree.IsEmpty() {
		return nil, nil, nil
	}
	if k <= 0 {
		k = i.tree.Size()
	}
	neighbors := i.tree.KNearestNeighbors(query, k)
	ids := make([]string, len(neighbors))
	dists := make([]float64, len(neighbors))
	for n, neighbor := range neighbors {
		ids[n] = neighbor.Point.Payload
		dists[n] = neighbor.Distance
	}
	return ids, dists, nil
}

// MarshalBinary uses the brute-force format for persistence.
func (i *Index) MarshalBinary() ([]byte, error) {
	var all []vptree.Point[string]
	if i.tree != nil {
		all = i.tree.Points()
	}
	ids := make([]string, len(all))
	coords := make([]vptree.Coordinate, len(all))
	for n, p := range all {
		ids[n] = p.Payload
		coords[n] = p.Coordinate
	}
	return bruteforce.Encode(ids, coords)
}

// UnmarshalBinary loads brute-force format and rebuilds the VP-tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, coords, err := bruteforce.Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, coords)
}

func points(ids []string, coords []vptree.Coordinate) []vptree.Point[string] {
	result := make([]vptree.Point[string], len(ids))
	for n := range ids {
		result[n] = vptree.Point[string]{Coordinate: coords[n], Payload: ids[n]}
	}
	return result
}
