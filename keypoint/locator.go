package keypoint

import (
	"io"
	"log/slog"

	"github.com/viant/citymap/vptree"
)

// DefaultCapacity is the leaf size of a locator tree.
const DefaultCapacity = 5

// Locator resolves coordinates to the pixel of the nearest surveyed point.
type Locator struct {
	tree   *vptree.Tree[Pixel]
	logger *slog.Logger
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithLogger sets the logger used to report unresolved survey points.
func WithLogger(logger *slog.Logger) LocatorOption {
	return func(l *Locator) { l.logger = logger }
}

// NewLocator interpolates routes and indexes every resolved point. Tree
// options are applied after the locator defaults.
func NewLocator(routes [][]Point, treeOpts []vptree.Option, opts ...LocatorOption) (*Locator, error) {
	l := &Locator{}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	treeOpts = append([]vptree.Option{vptree.WithCapacity(DefaultCapacity), vptree.WithLogger(l.logger)}, treeOpts...)
	tree, err := vptree.New[Pixel](treeOpts...)
	if err != nil {
		return nil, err
	}
	l.tree = tree
	var batch []vptree.Point[Pixel]
	for i, route := range routes {
		batch = l.resolve(i, route, batch)
	}
	l.tree.AddAll(batch)
	return l, nil
}

// AddRoute interpolates route and indexes its resolved points. It returns the
// number of points added.
func (l *Locator) AddRoute(route []Point) int {
	batch := l.resolve(-1, route, nil)
	l.tree.AddAll(batch)
	return len(batch)
}

func (l *Locator) resolve(index int, route []Point, dst []vptree.Point[Pixel]) []vptree.Point[Pixel] {
	Interpolate(route)
	if missing := Unresolved(route); len(missing) > 0 {
		l.logger.Warn("keypoint_unresolved_points", "route", index, "points", len(route), "unresolved", len(missing))
	}
	for _, p := range route {
		if p.Pixel == nil {
			continue
		}
		dst = append(dst, vptree.Point[Pixel]{Coordinate: p.Coordinate, Payload: *p.Pixel})
	}
	return dst
}

// Locate returns the pixel of the surveyed point closest to c.
func (l *Locator) Locate(c vptree.Coordinate) (Pixel, bool) {
	return l.tree.Nearest(c)
}

// LocateK returns the pixels of the k surveyed points closest to c.
func (l *Locator) LocateK(c vptree.Coordinate, k int) []Pixel {
	return l.tree.KNearest(c, k)
}

// Size returns the number of indexed points.
func (l *Locator) Size() int { return l.tree.Size() }

// Tree exposes the underlying index.
func (l *Locator) Tree() *vptree.Tree[Pixel] { return l.tree }

// CacheStats returns distance cache diagnostics.
func (l *Locator) CacheStats() vptree.CacheStats { return l.tree.CacheStats() }
