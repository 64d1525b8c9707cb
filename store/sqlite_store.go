package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/citymap/keypoint"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the schema
// exists in the provided database.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveRoute replaces the stored points of route in a single transaction.
// Pixels of map points are stored when already interpolated.
func (s *SQLiteStore) SaveRoute(ctx context.Context, route string, points []keypoint.Point) error {
	if route == "" {
		return fmt.Errorf("store: SaveRoute called with empty route")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_points WHERE route = ?`, route); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO route_points(route, seq, lat, lon, is_key, px, py) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, p := range points {
		var px, py sql.NullFloat64
		if p.Pixel != nil {
			px = sql.NullFloat64{Float64: float64(p.Pixel.X), Valid: true}
			py = sql.NullFloat64{Float64: float64(p.Pixel.Y), Valid: true}
		}
		isKey := 0
		if p.Key {
			isKey = 1
		}
		if _, err := stmt.ExecContext(ctx, route, seq, p.Lat, p.Lon, isKey, px, py); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadRoute returns the points of route ordered by sequence.
func (s *SQLiteStore) LoadRoute(ctx context.Context, route string) ([]keypoint.Point, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT lat, lon, is_key, px, py FROM route_points WHERE route = ? ORDER BY seq`, route)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []keypoint.Point
	for rows.Next() {
		var (
			lat, lon float64
			isKey    int
			px, py   sql.NullFloat64
		)
		if err := rows.Scan(&lat, &lon, &isKey, &px, &py); err != nil {
			return nil, err
		}
		p := keypoint.NewMapPoint(lat, lon)
		p.Key = isKey != 0
		if px.Valid && py.Valid {
			p.Pixel = &keypoint.Pixel{X: float32(px.Float64), Y: float32(py.Float64)}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Routes lists distinct route names.
func (s *SQLiteStore) Routes(ctx context.Context) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT route FROM route_points ORDER BY route`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var route string
		if err := rows.Scan(&route); err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	return out, rows.Err()
}

// RemoveRoute deletes a route by name.
func (s *SQLiteStore) RemoveRoute(ctx context.Context, route string) error {
	if route == "" {
		return fmt.Errorf("store: RemoveRoute called with empty route")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM route_points WHERE route = ?`, route)
	return err
}

// SaveIndex upserts a serialized index.
func (s *SQLiteStore) SaveIndex(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("store: SaveIndex called with empty name")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO index_storage(name, data, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET
  data = excluded.data,
  updated_at = excluded.updated_at`, name, data)
	return err
}

// LoadIndex returns the stored index blob, or nil when absent.
func (s *SQLiteStore) LoadIndex(ctx context.Context, name string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM index_storage WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
