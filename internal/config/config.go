// Package config loads citymap CLI settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/viant/citymap/vptree"
)

// Config holds CLI settings.
type Config struct {
	DB          string
	Routes      []string
	Capacity    int
	CacheSize   int
	Distance    vptree.DistanceFunction
	Seed        uint64
	HasSeed     bool
	MetricsAddr string
}

// Load reads envFile when it exists, then the CITYMAP_* variables.
// Variables already set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	cfg := &Config{
		DB:          getenv("CITYMAP_DB", "citymap.sqlite"),
		Capacity:    5,
		CacheSize:   vptree.DefaultCacheSize,
		Distance:    vptree.DistanceFunction(getenv("CITYMAP_DISTANCE", string(vptree.DistanceFunctionHaversine))),
		MetricsAddr: os.Getenv("CITYMAP_METRICS_ADDR"),
	}
	if v := os.Getenv("CITYMAP_ROUTES"); v != "" {
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Routes = append(cfg.Routes, r)
			}
		}
	}
	var err error
	if cfg.Capacity, err = intEnv("CITYMAP_CAPACITY", cfg.Capacity); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = intEnv("CITYMAP_CACHE_SIZE", cfg.CacheSize); err != nil {
		return nil, err
	}
	if v := os.Getenv("CITYMAP_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("config: CITYMAP_SEED: %w", err)
		}
		cfg.HasSeed = true
	}
	if cfg.Distance.Function() == nil {
		return nil, fmt.Errorf("config: unsupported CITYMAP_DISTANCE %q", cfg.Distance)
	}
	return cfg, nil
}

// TreeOptions converts the settings to vptree options.
func (c *Config) TreeOptions() []vptree.Option {
	opts := []vptree.Option{
		vptree.WithCapacity(c.Capacity),
		vptree.WithCacheSize(c.CacheSize),
		vptree.WithDistance(c.Distance),
	}
	if c.HasSeed {
		opts = append(opts, vptree.WithSeed(c.Seed))
	}
	return opts
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
