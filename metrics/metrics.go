// Package metrics exports VP-tree size and distance cache counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viant/citymap/vptree"
)

// Source is anything that reports tree size and cache statistics.
type Source interface {
	Size() int
	CacheStats() vptree.CacheStats
}

// Collector reads a Source on every scrape.
type Collector struct {
	source   Source
	size     *prometheus.Desc
	hits     *prometheus.Desc
	misses   *prometheus.Desc
	entries  *prometheus.Desc
	capacity *prometheus.Desc
}

// NewCollector returns a collector labelled with index name.
func NewCollector(name string, source Source) *Collector {
	labels := prometheus.Labels{"index": name}
	return &Collector{
		source:   source,
		size:     prometheus.NewDesc("citymap_tree_points", "Number of points indexed", nil, labels),
		hits:     prometheus.NewDesc("citymap_distance_cache_hits_total", "Distance cache hits", nil, labels),
		misses:   prometheus.NewDesc("citymap_distance_cache_misses_total", "Distance cache misses", nil, labels),
		entries:  prometheus.NewDesc("citymap_distance_cache_entries", "Distance cache entries", nil, labels),
		capacity: prometheus.NewDesc("citymap_distance_cache_capacity", "Distance cache capacity", nil, labels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.hits
	ch <- c.misses
	ch <- c.entries
	ch <- c.capacity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.CacheStats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(c.source.Size()))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(stats.Entries))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(stats.Capacity))
}

// Register adds a collector for source to reg.
func Register(reg prometheus.Registerer, name string, source Source) (*Collector, error) {
	c := NewCollector(name, source)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Handler serves the metrics gathered by reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
