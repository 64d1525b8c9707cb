package store

import (
	"context"
	"fmt"

	"github.com/viant/citymap/keypoint"
)

// LoadRoutes loads the named routes, or every stored route when names is
// empty, in the order requested.
func LoadRoutes(ctx context.Context, s Store, names ...string) ([][]keypoint.Point, error) {
	if len(names) == 0 {
		var err error
		if names, err = s.Routes(ctx); err != nil {
			return nil, err
		}
	}
	routes := make([][]keypoint.Point, 0, len(names))
	for _, name := range names {
		points, err := s.LoadRoute(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("store: load route %s: %w", name, err)
		}
		if len(points) == 0 {
			return nil, fmt.Errorf("store: route %s not found", name)
		}
		routes = append(routes, points)
	}
	return routes, nil
}
