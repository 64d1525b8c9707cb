package store

import (
	"context"
	"fmt"
)

const routeLogSchema = `
CREATE TABLE IF NOT EXISTS route_log (
    scn        INTEGER PRIMARY KEY AUTOINCREMENT,
    route      TEXT NOT NULL,
    op         TEXT NOT NULL,
    point_seq  INTEGER NOT NULL,
    lat        REAL NOT NULL,
    lon        REAL NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// routeLogTriggers capture every change to route_points into route_log so
// that a persisted index can tell whether it is stale.
func routeLogTriggers() []string {
	trigger := func(name, event, op, alias string) string {
		return fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s AFTER %s ON route_points
BEGIN
    INSERT INTO route_log(route, op, point_seq, lat, lon)
    VALUES (%[4]s.route, '%[3]s', %[4]s.seq, %[4]s.lat, %[4]s.lon);
END;`, name, event, op, alias)
	}
	return []string{
		trigger("route_points_ai", "INSERT", "insert", "NEW"),
		trigger("route_points_au", "UPDATE", "update", "NEW"),
		trigger("route_points_ad", "DELETE", "delete", "OLD"),
	}
}

// Change is a single route_log row.
type Change struct {
	SCN   int64
	Route string
	Op    string
	Seq   int
	Lat   float64
	Lon   float64
}

// Changes returns up to limit route_log entries with scn greater than after,
// in scn order. A non-positive limit returns every entry.
func (s *SQLiteStore) Changes(ctx context.Context, after int64, limit int) ([]Change, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT scn, route, op, point_seq, lat, lon FROM route_log WHERE scn > ? ORDER BY scn LIMIT ?`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.SCN, &c.Route, &c.Op, &c.Seq, &c.Lat, &c.Lon); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LastSCN returns the highest recorded change number, or 0 when no change
// has been logged.
func (s *SQLiteStore) LastSCN(ctx context.Context) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var scn int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(scn), 0) FROM route_log`).Scan(&scn)
	return scn, err
}
