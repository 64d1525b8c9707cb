package keypoint

// Interpolate assigns pixels to the map points lying between consecutive key
// points, stepping linearly from one anchor to the next. Map points before
// the first or after the last key point keep a nil pixel.
func Interpolate(points []Point) {
	start := nextKey(points, 0)
	if start < 0 {
		return
	}
	for {
		end := nextKey(points, start+1)
		if end < 0 {
			return
		}
		from, to := points[start].Pixel, points[end].Pixel
		steps := float32(end - start)
		dx := (to.X - from.X) / steps
		dy := (to.Y - from.Y) / steps
		for i := start + 1; i < end; i++ {
			step := float32(i - start)
			points[i].Pixel = &Pixel{X: from.X + dx*step, Y: from.Y + dy*step}
		}
		start = end
	}
}

// nextKey returns the index of the first key point at or after from, or -1.
// Key points without a pixel are treated as map points.
func nextKey(points []Point, from int) int {
	for i := from; i < len(points); i++ {
		if points[i].Key && points[i].Pixel != nil {
			return i
		}
	}
	return -1
}

// Unresolved returns the indices of points that still lack a pixel.
func Unresolved(points []Point) []int {
	var result []int
	for i := range points {
		if points[i].Pixel == nil {
			result = append(result, i)
		}
	}
	return result
}
