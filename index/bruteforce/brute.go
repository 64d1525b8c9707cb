package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/citymap/vptree"
)

// Index is a simple brute-force geographic index using haversine distance.
type Index struct {
	ids    []string
	coords []vptree.Coordinate
}

// Build loads ids and coordinates.
func (i *Index) Build(ids []string, coords []vptree.Coordinate) error {
	if len(ids) != len(coords) {
		return fmt.Errorf("bruteforce: ids and coords length mismatch: %d != %d", len(ids), len(coords))
	}
	if len(ids) == 0 {
		i.ids, i.coords = nil, nil
		return nil
	}
	i.ids = append([]string(nil), ids...)
	i.coords = append([]vptree.Coordinate(nil), coords...)
	return nil
}

// Len returns the number of indexed points.
func (i *Index) Len() int { return len(i.ids) }

// Query returns the top-k ids by ascending distance in meters.
func (i *Index) Query(query vptree.Coordinate, k int) ([]string, []float64, error) {
	if len(i.coords) == 0 {
		return nil, nil, nil
	}
	type scored struct {
		idx  int
		dist float64
	}
	scoreds := make([]scored, 0, len(i.coords))
	for j := range i.coords {
		d := vptree.HaversineDistance(query, i.coords[j])
		if math.IsNaN(d) {
			continue
		}
		scoreds = append(scoreds, scored{idx: j, dist: d})
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].dist < scoreds[b].dist })
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	outIDs := make([]string, k)
	outDists := make([]float64, k)
	for n := 0; n < k; n++ {
		outIDs[n] = i.ids[scoreds[n].idx]
		outDists[n] = scoreds[n].dist
	}
	return outIDs, outDists, nil
}

// MarshalBinary encodes the index contents with Encode.
func (i *Index) MarshalBinary() ([]byte, error) {
	return Encode(i.ids, i.coords)
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, coords, err := Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, coords)
}

// Encode stores: n(uint32), then for each item: idLen(uint32), id bytes,
// lat(float64), lon(float64), all little endian.
func Encode(ids []string, coords []vptree.Coordinate) ([]byte, error) {
	if len(ids) != len(coords) {
		return nil, fmt.Errorf("bruteforce: ids and coords length mismatch: %d != %d", len(ids), len(coords))
	}
	size := 4
	for _, id := range ids {
		size += 4 + len(id) + 16
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
	for idx, id := range ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(coords[idx].Lat))
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(coords[idx].Lon))
	}
	return out, nil
}

// Decode parses data produced by Encode.
func Decode(data []byte) ([]string, []vptree.Coordinate, error) {
	if len(data) < 4 {
		return nil, nil, errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(data[off : off+4]); off += 4; return v }
	getF64 := func() float64 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
		off += 8
		return v
	}
	n := int(getU32())
	ids := make([]string, 0, min(n, len(data)/20))
	coords := make([]vptree.Coordinate, 0, cap(ids))
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated")
		}
		idlen := int(getU32())
		if off+idlen > len(data) {
			return nil, nil, errors.New("bruteforce: truncated id")
		}
		id := string(data[off : off+idlen])
		off += idlen
		if off+16 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated coordinate")
		}
		lat := getF64()
		lon := getF64()
		ids = append(ids, id)
		coords = append(coords, vptree.Coordinate{Lat: lat, Lon: lon})
	}
	return ids, coords, nil
}
