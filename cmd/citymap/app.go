package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/citymap/engine"
	"github.com/viant/citymap/geosql"
	"github.com/viant/citymap/index/vp"
	"github.com/viant/citymap/internal/config"
	"github.com/viant/citymap/internal/logger"
	"github.com/viant/citymap/keypoint"
	"github.com/viant/citymap/store"
	"github.com/viant/citymap/vptree"
)

type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *sql.DB
	store *store.SQLiteStore
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	if err := engine.RegisterGeoFunctions(nil); err != nil {
		return nil, err
	}
	db, err := engine.OpenFile(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := geosql.Register(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s, err := store.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db, store: s}, nil
}

func (a *app) Close() error { return a.db.Close() }

func (a *app) run(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}
	switch args[0] {
	case "locate":
		return a.locate(ctx, args[1:], w)
	case "index":
		if len(args) != 2 {
			return errors.New("usage: index <name>")
		}
		return a.buildIndex(ctx, args[1], w)
	case "nearest":
		return a.nearest(ctx, args[1:], w)
	case "changes":
		return a.changes(ctx, args[1:], w)
	case "serve":
		return a.serve(ctx)
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) locator(ctx context.Context) (*keypoint.Locator, error) {
	routes, err := store.LoadRoutes(ctx, a.store, a.cfg.Routes...)
	if err != nil {
		return nil, err
	}
	loc, err := keypoint.NewLocator(routes, a.cfg.TreeOptions(), keypoint.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.log.Info("locator_ready", "routes", len(routes), "points", loc.Size(), "depth", loc.Tree().Depth())
	return loc, nil
}

func (a *app) locate(ctx context.Context, args []string, w io.Writer) error {
	c, k, err := parseFix(args)
	if err != nil {
		return err
	}
	loc, err := a.locator(ctx)
	if err != nil {
		return err
	}
	pixels := loc.LocateK(c, k)
	if len(pixels) == 0 {
		return errors.New("no surveyed points")
	}
	for _, p := range pixels {
		fmt.Fprintf(w, "%g %g\n", p.X, p.Y)
	}
	stats := loc.CacheStats()
	a.log.Debug("distance_cache", "hits", stats.Hits, "misses", stats.Misses, "entries", stats.Entries)
	return nil
}

// buildIndex indexes every surveyed coordinate under "route:seq" ids and
// persists it under name.
func (a *app) buildIndex(ctx context.Context, name string, w io.Writer) error {
	if !geosql.ValidTableName(name) {
		return fmt.Errorf("invalid index name %q: want letters, digits and underscores", name)
	}
	names := a.cfg.Routes
	if len(names) == 0 {
		var err error
		if names, err = a.store.Routes(ctx); err != nil {
			return err
		}
	}
	var ids []string
	var coords []vptree.Coordinate
	for _, route := range names {
		points, err := a.store.LoadRoute(ctx, route)
		if err != nil {
			return err
		}
		for i, p := range points {
			ids = append(ids, route+":"+strconv.Itoa(i))
			coords = append(coords, p.Coordinate)
		}
	}
	idx, err := vp.New(a.cfg.TreeOptions()...)
	if err != nil {
		return err
	}
	if err := idx.Build(ids, coords); err != nil {
		return err
	}
	data, err := idx.MarshalBinary()
	if err != nil {
		return err
	}
	if err := a.store.SaveIndex(ctx, name, data); err != nil {
		return err
	}
	fmt.Fprintf(w, "indexed %d points as %s\n", idx.Len(), name)
	return nil
}

func (a *app) nearest(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: nearest <name> <lat> <lon> [k]")
	}
	name := args[0]
	if !geosql.ValidTableName(name) {
		return fmt.Errorf("invalid index name %q: want letters, digits and underscores", name)
	}
	c, k, err := parseFix(args[1:])
	if err != nil {
		return err
	}
	data, err := a.store.LoadIndex(ctx, name)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("index %s not found", name)
	}
	idx, err := vp.New(a.cfg.TreeOptions()...)
	if err != nil {
		return err
	}
	if err := idx.UnmarshalBinary(data); err != nil {
		return err
	}
	geosql.Publish(name, idx)
	defer geosql.Unpublish(name)
	if _, err := a.db.ExecContext(ctx, fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS temp.%s USING %s(id, distance)", name, geosql.ModuleName)); err != nil {
		return err
	}
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("SELECT id, distance FROM temp.%s WHERE id MATCH ?", name), fmt.Sprintf("%g,%g,%d", c.Lat, c.Lon, k))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var dist float64
		if err := rows.Scan(&id, &dist); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %.1f\n", id, dist)
	}
	return rows.Err()
}

func (a *app) changes(ctx context.Context, args []string, w io.Writer) error {
	var after int64
	if len(args) > 0 {
		var err error
		if after, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("invalid scn %q: %w", args[0], err)
		}
	}
	changes, err := a.store.Changes(ctx, after, 0)
	if err != nil {
		return err
	}
	for _, c := range changes {
		fmt.Fprintf(w, "%d %s %s %d %g %g\n", c.SCN, c.Op, c.Route, c.Seq, c.Lat, c.Lon)
	}
	return nil
}

func (a *app) serve(ctx context.Context) error {
	if a.cfg.MetricsAddr == "" {
		return errors.New("CITYMAP_METRICS_ADDR is not set")
	}
	loc, err := a.locator(ctx)
	if err != nil {
		return err
	}
	mux, err := newServeMux(&syncLocator{loc: loc}, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	a.log.Info("serving", "addr", a.cfg.MetricsAddr)
	return http.ListenAndServe(a.cfg.MetricsAddr, logger.AccessMiddleware(a.log)(mux))
}

func parseFix(args []string) (vptree.Coordinate, int, error) {
	if len(args) != 2 && len(args) != 3 {
		return vptree.Coordinate{}, 0, errors.New("expected <lat> <lon> [k]")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return vptree.Coordinate{}, 0, fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return vptree.Coordinate{}, 0, fmt.Errorf("invalid lon: %w", err)
	}
	k := 1
	if len(args) == 3 {
		if k, err = strconv.Atoi(args[2]); err != nil || k <= 0 {
			return vptree.Coordinate{}, 0, fmt.Errorf("invalid k %q", args[2])
		}
	}
	return vptree.Coordinate{Lat: lat, Lon: lon}, k, nil
}
