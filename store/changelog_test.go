package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/citymap/keypoint"
)

func TestSQLiteStore_Changes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	scn, err := s.LastSCN(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, scn)

	route := []keypoint.Point{
		keypoint.NewKeyPoint(1, 2, 0, 0),
		keypoint.NewMapPoint(1.5, 2.5),
	}
	require.NoError(t, s.SaveRoute(ctx, "r1", route))
	changes, err := s.Changes(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, Change{SCN: changes[1].SCN, Route: "r1", Op: "insert", Seq: 1, Lat: 1.5, Lon: 2.5}, changes[1])

	mark, err := s.LastSCN(ctx)
	require.NoError(t, err)
	assert.Equal(t, changes[1].SCN, mark)

	require.NoError(t, s.RemoveRoute(ctx, "r1"))
	changes, err = s.Changes(ctx, mark, 1)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "delete", changes[0].Op)
	assert.Equal(t, "r1", changes[0].Route)
}
