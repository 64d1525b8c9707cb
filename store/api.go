package store

import (
	"context"

	"github.com/viant/citymap/keypoint"
)

// Store defines the survey persistence API consumed by the locator loader.
type Store interface {
	// SaveRoute replaces the points of route, preserving their order.
	SaveRoute(ctx context.Context, route string, points []keypoint.Point) error

	// LoadRoute returns the points of route in survey order.
	LoadRoute(ctx context.Context, route string) ([]keypoint.Point, error)

	// Routes lists stored route names in ascending order.
	Routes(ctx context.Context) ([]string, error)

	// RemoveRoute deletes every point of route.
	RemoveRoute(ctx context.Context, route string) error

	// SaveIndex stores a serialized index under name.
	SaveIndex(ctx context.Context, name string, data []byte) error

	// LoadIndex returns the serialized index stored under name, or nil when
	// none exists.
	LoadIndex(ctx context.Context, name string) ([]byte, error)
}
