package vptree

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/viant/vec/search"
)

// EarthRadius is the mean Earth radius in meters used by the s2 metric.
const EarthRadius = 6371008.8

// DistanceFunction enumerates supported distance metrics.
type DistanceFunction string

const (
	DistanceFunctionHaversine DistanceFunction = "haversine"
	DistanceFunctionS2        DistanceFunction = "s2"
	DistanceFunctionEuclidean DistanceFunction = "euclidean"
)

// DistanceFunc computes the distance between two coordinates. Implementations
// must satisfy the metric axioms; the tree's pruning relies on the triangle
// inequality.
type DistanceFunc func(a, b Coordinate) float64

// Function resolves the callable distance implementation.
func (d DistanceFunction) Function() DistanceFunc {
	switch d {
	case DistanceFunctionHaversine:
		return HaversineDistance
	case DistanceFunctionS2:
		return S2Distance
	case DistanceFunctionEuclidean:
		return EuclideanDistance
	default:
		return nil
	}
}

// HaversineDistance returns the great-circle distance in meters.
func HaversineDistance(a, b Coordinate) float64 {
	return geo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat})
}

// S2Distance returns the great-circle distance in meters computed on the
// unit sphere by s2. Arguments are ordered before the call so the result is
// symmetric to the last bit.
func S2Distance(a, b Coordinate) float64 {
	if b.Lat < a.Lat || (b.Lat == a.Lat && b.Lon < a.Lon) {
		a, b = b, a
	}
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * EarthRadius
}

// EuclideanDistance returns the planar distance in degrees. It is only
// meaningful for small areas where the lat/lon grid is close to square.
func EuclideanDistance(a, b Coordinate) float64 {
	v1 := search.Float32s{float32(a.Lat), float32(a.Lon)}
	return float64(v1.EuclideanDistance([]float32{float32(b.Lat), float32(b.Lon)}))
}
