// Package geosql exposes published geographic indexes to SQL through the
// geo_nearest virtual table.
//
//	geosql.Publish("stops", idx)
//	CREATE VIRTUAL TABLE stops USING geo_nearest(id, distance);
//	SELECT id, distance FROM stops WHERE id MATCH '52.52,13.40,3';
//
// The MATCH argument is "lat,lon" or "lat,lon,k"; k defaults to 1. Rows are
// returned nearest first with distances in the index metric (meters for
// haversine and s2).
package geosql
