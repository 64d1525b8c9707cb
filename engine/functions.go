package engine

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"sync"

	"github.com/viant/citymap/vptree"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterGeoFunctions registers geo_distance and geo_s2_distance with the
// driver so they are available on new connections opened after this call.
// Both take (lat1, lon1, lat2, lon2) in degrees and return meters.
// Note: existing open connections will not see new functions.
func RegisterGeoFunctions(_ *sql.DB) error {
	var err error
	registerOnce.Do(func() {
		if err = sqlite.RegisterDeterministicScalarFunction("geo_distance", 4, distanceImpl(vptree.HaversineDistance)); err != nil {
			return
		}
		err = sqlite.RegisterDeterministicScalarFunction("geo_s2_distance", 4, distanceImpl(vptree.S2Distance))
	})
	return err
}

func distanceImpl(fn vptree.DistanceFunc) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("geo_distance: expected 4 arguments, got %d", len(args))
		}
		var values [4]float64
		for i, arg := range args {
			if arg == nil {
				return nil, nil
			}
			v, err := asFloat(arg)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		a := vptree.Coordinate{Lat: values[0], Lon: values[1]}
		b := vptree.Coordinate{Lat: values[2], Lon: values[3]}
		return fn(a, b), nil
	}
}

func asFloat(arg driver.Value) (float64, error) {
	switch v := arg.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	default:
		return 0, fmt.Errorf("geo: unsupported argument type %T for coordinate; want REAL", arg)
	}
}
