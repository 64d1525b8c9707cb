package vp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/citymap/index"
	"github.com/viant/citymap/index/bruteforce"
	"github.com/viant/citymap/vptree"
	"golang.org/x/exp/rand"
)

var (
	_ index.Index = (*Index)(nil)
	_ index.Index = (*bruteforce.Index)(nil)
)

func fixture(n int) ([]string, []vptree.Coordinate) {
	rnd := rand.New(rand.NewSource(21))
	ids := make([]string, n)
	coords := make([]vptree.Coordinate, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%03d", i)
		coords[i] = vptree.Coordinate{Lat: 40.6 + rnd.Float64()*0.3, Lon: -74.1 + rnd.Float64()*0.3}
	}
	return ids, coords
}

func TestIndex_AgreesWithBruteForce(t *testing.T) {
	ids, coords := fixture(400)
	vpIdx, err := New(vptree.WithCapacity(6), vptree.WithSeed(5))
	require.NoError(t, err)
	require.NoError(t, vpIdx.Build(ids, coords))
	bf := &bruteforce.Index{}
	require.NoError(t, bf.Build(ids, coords))

	for _, q := range []vptree.Coordinate{{Lat: 40.7, Lon: -74.0}, {Lat: 40.85, Lon: -73.9}, {Lat: 41.5, Lon: -75}} {
		for _, k := range []int{1, 5, 40} {
			gotIDs, gotDists, err := vpIdx.Query(q, k)
			require.NoError(t, err)
			wantIDs, wantDists, err := bf.Query(q, k)
			require.NoError(t, err)
			assert.Equal(t, wantIDs, gotIDs)
			assert.InDeltaSlice(t, wantDists, gotDists, 1e-6)
		}
	}
}

func TestIndex_MarshalRoundTrip(t *testing.T) {
	ids, coords := fixture(50)
	src, err := New(vptree.WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, src.Build(ids, coords))
	data, err := src.MarshalBinary()
	require.NoError(t, err)

	bf := &bruteforce.Index{}
	require.NoError(t, bf.UnmarshalBinary(data))
	assert.Equal(t, 50, bf.Len())

	dst := &Index{}
	require.NoError(t, dst.UnmarshalBinary(data))
	assert.Equal(t, 50, dst.Len())
	q := vptree.Coordinate{Lat: 40.7, Lon: -74.0}
	want, _, _ := src.Query(q, 3)
	got, _, _ := dst.Query(q, 3)
	assert.Equal(t, want, got)
}

func TestIndex_AddRemove(t *testing.T) {
	ids, coords := fixture(30)
	idx, err := New(vptree.WithCapacity(4), vptree.WithSeed(2))
	require.NoError(t, err)
	require.NoError(t, idx.Add(ids[:10], coords[:10]))
	require.NoError(t, idx.Add(ids[10:], coords[10:]))
	assert.Equal(t, 30, idx.Len())

	removed, err := idx.Remove(ids[:5], coords[:5])
	require.NoError(t, err)
	assert.Equal(t, 5, removed)
	removed, err = idx.Remove(ids[:5], coords[:5])
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 25, idx.Len())

	all, _, err := idx.Query(coords[0], 0)
	require.NoError(t, err)
	assert.Len(t, all, 25)
	assert.NotContains(t, all, ids[0])

	_, err = idx.Remove([]string{"x"}, nil)
	assert.Error(t, err)
	assert.Error(t, idx.Build([]string{"x"}, nil))
}

func TestIndex_Empty(t *testing.T) {
	idx := &Index{}
	ids, dists, err := idx.Query(vptree.Coordinate{}, 3)
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.Nil(t, dists)
	data, err := idx.MarshalBinary()
	require.NoError(t, err)
	assert.NoError(t, idx.UnmarshalBinary(data))
	assert.Equal(t, 0, idx.Len())
}
