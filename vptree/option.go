package vptree

import (
	"log/slog"

	"golang.org/x/exp/rand"
)

// DefaultCapacity is the leaf bucket size of a tree.
const DefaultCapacity = 32

type options struct {
	capacity   int
	cacheSize  int
	distance   DistanceFunc
	distanceID DistanceFunction
	source     rand.Source
	logger     *slog.Logger
}

// Option configures a Tree.
type Option func(*options)

// WithCapacity sets the number of points a leaf holds before it is split.
func WithCapacity(capacity int) Option {
	return func(o *options) { o.capacity = capacity }
}

// WithCacheSize sets the distance cache capacity; zero disables caching.
func WithCacheSize(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// WithDistance selects a named distance metric.
func WithDistance(fn DistanceFunction) Option {
	return func(o *options) {
		o.distanceID = fn
		o.distance = fn.Function()
	}
}

// WithDistanceFunc installs a custom distance metric.
func WithDistanceFunc(fn DistanceFunc) Option {
	return func(o *options) {
		o.distanceID = ""
		o.distance = fn
	}
}

// WithSeed seeds vantage and pivot selection for reproducible builds.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.source = rand.NewSource(seed) }
}

// WithSource sets the random source used for vantage and pivot selection.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.source = src }
}

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func defaultOptions() *options {
	return &options{
		capacity:   DefaultCapacity,
		cacheSize:  DefaultCacheSize,
		distance:   HaversineDistance,
		distanceID: DistanceFunctionHaversine,
	}
}
