// Package config handles configuration loading and shared data structures.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crazywalk/streetgraph/internal/pipeline"
)

// Config represents the root configuration file structure.
type Config struct {
	Overpass  Overpass  `yaml:"overpass,omitempty"`
	Generator Generator `yaml:"generator,omitempty"`
	Cache     Cache     `yaml:"cache,omitempty"`
}

// Overpass configures the road network source.
type Overpass struct {
	Endpoints      []string `yaml:"endpoints,omitempty"`
	TimeoutSeconds int      `yaml:"timeout,omitempty"`
}

// Generator configures the graph derivation.
type Generator struct {
	WaypointSpacing float64   `yaml:"waypoint_spacing,omitempty"`
	RegionSizes     []float64 `yaml:"region_sizes,omitempty"`
	Merge           Merge     `yaml:"merge,omitempty"`
}

// Merge configures the small-polygon merge pass.
type Merge struct {
	Enabled    *bool `yaml:"enabled,omitempty"`
	Iterations int   `yaml:"iterations,omitempty"`
}

// Cache configures the initial-mode bundle cache.
type Cache struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	TTLHours int   `yaml:"ttl_hours,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in every unset field.
func (c *Config) ApplyDefaults() {
	if len(c.Overpass.Endpoints) == 0 {
		c.Overpass.Endpoints = []string{
			"https://overpass-api.de/api/interpreter",
			"https://overpass.kumi.systems/api/interpreter",
		}
	}
	if c.Overpass.TimeoutSeconds <= 0 {
		c.Overpass.TimeoutSeconds = 30
	}

	def := pipeline.DefaultConfig()
	if c.Generator.WaypointSpacing <= 0 {
		c.Generator.WaypointSpacing = def.WaypointSpacing
	}
	if len(c.Generator.RegionSizes) == 0 {
		c.Generator.RegionSizes = append([]float64(nil), def.RegionSizes...)
	}
	if c.Generator.Merge.Enabled == nil {
		enabled := def.MergeEnabled
		c.Generator.Merge.Enabled = &enabled
	}
	if c.Generator.Merge.Iterations <= 0 {
		c.Generator.Merge.Iterations = def.MergeIterations
	}

	if c.Cache.Enabled == nil {
		enabled := true
		c.Cache.Enabled = &enabled
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = int(def.CacheTTL / time.Hour)
	}
}

// Pipeline converts the configuration into the derivation knobs.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		WaypointSpacing: c.Generator.WaypointSpacing,
		MergeEnabled:    *c.Generator.Merge.Enabled,
		MergeIterations: c.Generator.Merge.Iterations,
		RegionSizes:     append([]float64(nil), c.Generator.RegionSizes...),
		CacheTTL:        time.Duration(c.Cache.TTLHours) * time.Hour,
	}
}

// OverpassTimeout returns the source HTTP timeout as a duration.
func (c *Config) OverpassTimeout() time.Duration {
	return time.Duration(c.Overpass.TimeoutSeconds) * time.Second
}
