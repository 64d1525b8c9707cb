package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/citymap/vptree"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CITYMAP_DB", "CITYMAP_ROUTES", "CITYMAP_CAPACITY", "CITYMAP_CACHE_SIZE", "CITYMAP_DISTANCE", "CITYMAP_SEED", "CITYMAP_METRICS_ADDR"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "citymap.sqlite", cfg.DB)
	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, vptree.DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, vptree.DistanceFunctionHaversine, cfg.Distance)
	assert.False(t, cfg.HasSeed)
	assert.Len(t, cfg.TreeOptions(), 3)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range []string{"CITYMAP_DB", "CITYMAP_ROUTES", "CITYMAP_SEED", "CITYMAP_DISTANCE"} {
		require.NoError(t, os.Unsetenv(k))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CITYMAP_DB=survey.db\nCITYMAP_ROUTES=north, south\nCITYMAP_SEED=42\nCITYMAP_DISTANCE=s2\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "survey.db", cfg.DB)
	assert.Equal(t, []string{"north", "south"}, cfg.Routes)
	assert.True(t, cfg.HasSeed)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, vptree.DistanceFunctionS2, cfg.Distance)
	assert.Len(t, cfg.TreeOptions(), 4)
	for _, k := range []string{"CITYMAP_DB", "CITYMAP_ROUTES", "CITYMAP_SEED", "CITYMAP_DISTANCE"} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CITYMAP_CAPACITY", "many")
	_, err := Load("")
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("CITYMAP_DISTANCE", "manhattan")
	_, err = Load("")
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("CITYMAP_SEED", "-1")
	_, err = Load("")
	assert.Error(t, err)
}
