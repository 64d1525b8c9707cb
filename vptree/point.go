package vptree

import "fmt"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// String implements fmt.Stringer.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g,%g)", c.Lat, c.Lon)
}

// Point is an indexed coordinate with its payload. The coordinate must not
// change once the point has been added to a tree.
type Point[T comparable] struct {
	Coordinate
	Payload T
}

// NewPoint constructs a point for the given coordinate and payload.
func NewPoint[T comparable](lat, lon float64, payload T) Point[T] {
	return Point[T]{Coordinate: Coordinate{Lat: lat, Lon: lon}, Payload: payload}
}
