package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/citymap/keypoint"
	"github.com/viant/citymap/metrics"
	"github.com/viant/citymap/vptree"
)

// syncLocator serializes every access to a Locator: lookups move entries in
// the distance cache, so metric scrapes take the same lock.
type syncLocator struct {
	mu  sync.Mutex
	loc *keypoint.Locator
}

func (s *syncLocator) Locate(c vptree.Coordinate) (keypoint.Pixel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc.Locate(c)
}

func (s *syncLocator) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc.Size()
}

func (s *syncLocator) CacheStats() vptree.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc.CacheStats()
}

func newServeMux(loc *syncLocator, reg *prometheus.Registry) (*http.ServeMux, error) {
	if _, err := metrics.Register(reg, "locator", loc); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/locate", locateHandler(loc))
	return mux, nil
}

// locateHandler answers /locate?lat=..&lon=.. with "x y".
func locateHandler(loc *syncLocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		c, _, err := parseFix([]string{q.Get("lat"), q.Get("lon")})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, ok := loc.Locate(c)
		if !ok {
			http.Error(w, "no surveyed points", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "%g %g\n", p.X, p.Y)
	}
}
