package keypoint

import "github.com/viant/citymap/vptree"

// Pixel is a position on the raster image.
type Pixel struct {
	X float32
	Y float32
}

// Point is a surveyed route point. Key points carry an authoritative pixel;
// map points start without one and receive it from Interpolate.
type Point struct {
	vptree.Coordinate
	Key   bool
	Pixel *Pixel
}

// NewKeyPoint returns a key point anchored at pixel (x, y).
func NewKeyPoint(lat, lon float64, x, y float32) Point {
	return Point{
		Coordinate: vptree.Coordinate{Lat: lat, Lon: lon},
		Key:        true,
		Pixel:      &Pixel{X: x, Y: y},
	}
}

// NewMapPoint returns a point whose pixel is still unknown.
func NewMapPoint(lat, lon float64) Point {
	return Point{Coordinate: vptree.Coordinate{Lat: lat, Lon: lon}}
}

// HasPixel reports whether the point has a pixel position.
func (p Point) HasPixel() bool { return p.Pixel != nil }
