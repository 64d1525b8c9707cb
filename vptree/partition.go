package vptree

import "golang.org/x/exp/rand"

// selectThreshold returns the median distance from vantage to points using a
// randomized quickselect. points is reordered as a side effect.
func selectThreshold[T comparable](vantage Coordinate, points []Point[T], distance DistanceFunc, rnd *rand.Rand) float64 {
	if len(points) == 0 {
		return 0
	}
	dists := make([]float64, len(points))
	for i := range points {
		dists[i] = distance(vantage, points[i].Coordinate)
	}
	median := (len(points) - 1) / 2
	lo, hi := 0, len(points)-1
	for lo < hi {
		p := partitionAround(dists, points, lo, hi, lo+rnd.Intn(hi-lo+1))
		switch {
		case p == median:
			return dists[median]
		case median < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return dists[median]
}

// partitionAround is a Lomuto pass: it moves the pivot element into its final
// sorted position within [lo, hi] and returns that position; smaller
// distances precede it.
func partitionAround[T comparable](dists []float64, points []Point[T], lo, hi, pivot int) int {
	pv := dists[pivot]
	swapPair(dists, points, pivot, hi)
	i := lo
	for j := lo; j < hi; j++ {
		if dists[j] < pv {
			swapPair(dists, points, i, j)
			i++
		}
	}
	swapPair(dists, points, i, hi)
	return i
}

func swapPair[T comparable](dists []float64, points []Point[T], i, j int) {
	dists[i], dists[j] = dists[j], dists[i]
	points[i], points[j] = points[j], points[i]
}

// partitionPoints moves every point within threshold of vantage ahead of the
// points beyond it and returns the index of the first point beyond. ok is
// false when the pass produced no boundary, i.e. the first point is not
// within threshold or the last point is not strictly beyond it.
func partitionPoints[T comparable](vantage Coordinate, points []Point[T], threshold float64, distance DistanceFunc) (idx int, ok bool) {
	if len(points) == 0 {
		return 0, false
	}
	i, j := 0, len(points)-1
	for i <= j {
		if distance(vantage, points[i].Coordinate) <= threshold {
			i++
			continue
		}
		for j > i && distance(vantage, points[j].Coordinate) > threshold {
			j--
		}
		if j == i {
			break
		}
		points[i], points[j] = points[j], points[i]
		i++
		j--
	}
	first := distance(vantage, points[0].Coordinate)
	last := distance(vantage, points[len(points)-1].Coordinate)
	if first <= threshold && last > threshold {
		return i, true
	}
	return 0, false
}
