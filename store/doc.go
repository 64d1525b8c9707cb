// Package store persists surveyed routes and serialized indexes in SQLite.
// It includes:
//   - Store interface and SQLiteStore implementation
//   - Schema helpers creating the route_points and index_storage tables
package store
