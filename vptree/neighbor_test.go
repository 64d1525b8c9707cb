package vptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestNeighborCollector_Bounded(t *testing.T) {
	c := NewNearestNeighborCollector[int](Coordinate{}, 3, EuclideanDistance)
	_, ok := c.FarthestDistance()
	assert.False(t, ok)

	for _, i := range []int{9, 2, 7, 1, 5, 3} {
		c.Offer(NewPoint(0, float64(i), i))
		assert.LessOrEqual(t, c.Len(), 3)
	}
	assert.True(t, c.Full())
	assert.Equal(t, []int{1, 2, 3}, c.Payloads())
	farthest, ok := c.FarthestDistance()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, farthest, 1e-9)
}

func TestNearestNeighborCollector_TiesKeepOfferOrder(t *testing.T) {
	c := NewNearestNeighborCollector[string](Coordinate{}, 2, EuclideanDistance)
	c.Offer(NewPoint(0, 1, "first"))
	c.Offer(NewPoint(1, 0, "second"))
	c.Offer(NewPoint(0, -1, "third"))
	assert.Equal(t, []string{"first", "second"}, c.Payloads())

	ns := c.Neighbors()
	assert.Len(t, ns, 2)
	assert.InDelta(t, ns[0].Distance, ns[1].Distance, 1e-9)
}

func TestNearestNeighborCollector_Empty(t *testing.T) {
	c := NewNearestNeighborCollector[int](Coordinate{}, 0, EuclideanDistance)
	c.Offer(NewPoint(0, 1, 1))
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Payloads())
}
