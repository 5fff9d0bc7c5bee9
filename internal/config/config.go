// Package config handles configuration loading and path resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrLatitudeOutOfRange is returned for a pinned reference latitude outside
// the open interval (-90, 90).
var ErrLatitudeOutOfRange = errors.New("config: reference latitude out of range")

// Config represents the root configuration file structure. Every field is
// optional; the zero config resolved through Default runs with conventional
// paths and a 200 m cell size.
type Config struct {
	DataDir   string  `yaml:"data_dir,omitempty"`
	OutputDir string  `yaml:"output_dir,omitempty"`
	CellSize  float64 `yaml:"cell_size,omitempty"`

	// ReferenceLatitude pins the meters-to-degrees conversion to a fixed
	// latitude instead of deriving it from the boundary. Only useful for
	// reproducing grids generated by older runs.
	ReferenceLatitude *float64 `yaml:"reference_latitude,omitempty"`

	Cities []City `yaml:"cities,omitempty"`
}

// City overrides the source paths for a single city.
type City struct {
	Name     string `yaml:"name"`
	Boundary string `yaml:"boundary,omitempty"`
	Listings string `yaml:"listings,omitempty"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DataDir:   "data",
		OutputDir: "out",
		CellSize:  200,
	}
}

// Load reads and parses the YAML configuration file from the specified path,
// filling unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = 200
	}

	// A pole-or-beyond latitude makes the longitude cell width infinite or
	// negative, degenerating the lattice.
	if cfg.ReferenceLatitude != nil {
		if lat := *cfg.ReferenceLatitude; lat <= -90 || lat >= 90 {
			return nil, fmt.Errorf("%w: reference_latitude %v", ErrLatitudeOutOfRange, lat)
		}
	}

	return &cfg, nil
}

// BoundaryPath resolves the boundary document path for a city.
func (c *Config) BoundaryPath(city string) string {
	if o := c.city(city); o != nil && o.Boundary != "" {
		return o.Boundary
	}
	return filepath.Join(c.DataDir, city, "boundary.geojson")
}

// ListingsPath resolves the point dataset path for a city.
func (c *Config) ListingsPath(city string) string {
	if o := c.city(city); o != nil && o.Listings != "" {
		return o.Listings
	}
	return filepath.Join(c.DataDir, city, "listings.csv")
}

func (c *Config) city(name string) *City {
	for i := range c.Cities {
		if c.Cities[i].Name == name {
			return &c.Cities[i]
		}
	}
	return nil
}
