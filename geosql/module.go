package geosql

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/citymap/index"
	"github.com/viant/citymap/vptree"
	"modernc.org/sqlite/vtab"
)

// ModuleName is the virtual table module name.
const ModuleName = "geo_nearest"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name can be used unquoted as a geo_nearest
// table name.
func ValidTableName(name string) bool { return tableName.MatchString(name) }

var published = struct {
	mu     sync.RWMutex
	byName map[string]index.Index
}{byName: make(map[string]index.Index)}

// Publish makes idx queryable through virtual tables named name.
func Publish(name string, idx index.Index) {
	published.mu.Lock()
	defer published.mu.Unlock()
	published.byName[strings.ToLower(name)] = idx
}

// Unpublish removes a published index.
func Unpublish(name string) {
	published.mu.Lock()
	defer published.mu.Unlock()
	delete(published.byName, strings.ToLower(name))
}

func lookup(name string) index.Index {
	published.mu.RLock()
	defer published.mu.RUnlock()
	return published.byName[strings.ToLower(name)]
}

// Module implements vtab.Module for geo_nearest.
type Module struct{}

// Table is a geo_nearest virtual table bound to a published index by name.
type Table struct{ name string }

// Cursor iterates kNN results.
type Cursor struct {
	table *Table
	ids   []string
	dists []float64
	pos   int
}

// Register installs the geo_nearest module; repeated registration is a no-op.
func Register(db *sql.DB) error {
	if err := vtab.RegisterModule(db, ModuleName, &Module{}); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	return nil
}

func (m *Module) declare(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("geosql: need at least 3 args")
	}
	if err := ctx.Declare(fmt.Sprintf("CREATE TABLE %s(id, distance)", args[2])); err != nil {
		return nil, err
	}
	return &Table{name: args[2]}, nil
}

// Create declares the table schema.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) { return m.declare(ctx, args) }

// Connect declares the table schema for an existing table.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) { return m.declare(ctx, args) }

// BestIndex pushes down MATCH on the id column.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		if c.Column == 0 && c.Op == vtab.OpMATCH {
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = 1
			break
		}
	}
	return nil
}

func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }
func (t *Table) Disconnect() error          { return nil }
func (t *Table) Destroy() error             { return nil }

// Filter runs the kNN query described by the MATCH argument.
func (c *Cursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.ids, c.dists, c.pos = nil, nil, 0
	if idxNum != 1 || len(vals) == 0 || vals[0] == nil {
		return nil
	}
	arg, ok := vals[0].(string)
	if !ok {
		return fmt.Errorf("geosql: MATCH expects 'lat,lon[,k]' as TEXT")
	}
	query, k, err := ParseQuery(arg)
	if err != nil {
		return err
	}
	idx := lookup(c.table.name)
	if idx == nil {
		return fmt.Errorf("geosql: no index published as %s", c.table.name)
	}
	c.ids, c.dists, err = idx.Query(query, k)
	return err
}

func (c *Cursor) Next() error {
	if c.pos < len(c.ids) {
		c.pos++
	}
	return nil
}

func (c *Cursor) Eof() bool { return c.pos >= len(c.ids) }

func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos < 0 || c.pos >= len(c.ids) {
		return nil, fmt.Errorf("geosql: Column out of range")
	}
	switch col {
	case 0:
		return c.ids[c.pos], nil
	case 1:
		return c.dists[c.pos], nil
	}
	return nil, nil
}

func (c *Cursor) Rowid() (int64, error) { return int64(c.pos + 1), nil }
func (c *Cursor) Close() error          { c.ids, c.dists, c.pos = nil, nil, 0; return nil }

// ParseQuery parses "lat,lon" or "lat,lon,k".
func ParseQuery(arg string) (vptree.Coordinate, int, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return vptree.Coordinate{}, 0, fmt.Errorf("geosql: invalid query %q, want lat,lon[,k]", arg)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return vptree.Coordinate{}, 0, fmt.Errorf("geosql: invalid latitude in %q: %w", arg, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return vptree.Coordinate{}, 0, fmt.Errorf("geosql: invalid longitude in %q: %w", arg, err)
	}
	k := 1
	if len(parts) == 3 {
		if k, err = strconv.Atoi(strings.TrimSpace(parts[2])); err != nil || k <= 0 {
			return vptree.Coordinate{}, 0, fmt.Errorf("geosql: invalid k in %q", arg)
		}
	}
	return vptree.Coordinate{Lat: lat, Lon: lon}, k, nil
}
