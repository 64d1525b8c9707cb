package store

import (
	"context"
	"database/sql"
)

const routePointsSchema = `
CREATE TABLE IF NOT EXISTS route_points (
    route  TEXT NOT NULL,
    seq    INTEGER NOT NULL,
    lat    REAL NOT NULL,
    lon    REAL NOT NULL,
    is_key INTEGER NOT NULL DEFAULT 0,
    px     REAL,
    py     REAL,
    PRIMARY KEY(route, seq)
);
`

const indexStorageSchema = `
CREATE TABLE IF NOT EXISTS index_storage (
    name       TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates the route_points, index_storage and route_log tables
// and the change-capture triggers if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	ddls := append([]string{routePointsSchema, indexStorageSchema, routeLogSchema}, routeLogTriggers()...)
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
