package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mglazov/pricegrid/internal/boundary"
	"github.com/mglazov/pricegrid/internal/config"
	"github.com/mglazov/pricegrid/internal/grid"
	"github.com/mglazov/pricegrid/internal/listings"
	"github.com/mglazov/pricegrid/internal/logger"
	"github.com/mglazov/pricegrid/internal/writer"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Compact    bool   `long:"compact" description:"Minify the output GeoJSON"`

	Args struct {
		City     string `positional-arg-name:"CITY" description:"City identifier" required:"true"`
		CellSize string `positional-arg-name:"CELL_SIZE" description:"Cell size in meters (default from config, 200)"`
	} `positional-args:"true"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg := loadConfig(opts.ConfigFile)

	cellSize, err := resolveCellSize(opts.Args.CellSize, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	city := opts.Args.City

	ring, err := boundary.Load(cfg.BoundaryPath(city))
	if err != nil {
		log.Fatal().Err(err).Str("city", city).Msg("Failed to load boundary")
	}

	points, err := listings.Load(cfg.ListingsPath(city))
	if err != nil {
		log.Fatal().Err(err).Str("city", city).Msg("Failed to load listings")
	}

	refLat := grid.ReferenceLatitude(ring)
	if cfg.ReferenceLatitude != nil {
		refLat = *cfg.ReferenceLatitude
	}

	g, err := grid.Build(ring, cellSize, refLat)
	if err != nil {
		log.Fatal().Err(err).Str("city", city).Msg("Failed to build grid")
	}

	log.Info().
		Str("city", city).
		Float64("cell_size", cellSize).
		Float64("ref_lat", refLat).
		Int("kept_cells", len(g.Cells)).
		Int("listings", len(points)).
		Msg("Aggregating listings into grid")

	populated := grid.Aggregate(g.Cells, points)

	fc := writer.Build(city, int(cellSize), populated)
	path := writer.OutputPath(cfg.OutputDir, city, int(cellSize))

	if err := writer.Write(fc, path, opts.Compact); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write feature collection")
	}

	writer.Summarize(populated).LogSummary(path)
}

// resolveCellSize returns the cell size to use: the positional argument when
// present, the configured default otherwise. The argument must parse as a
// positive number.
func resolveCellSize(arg string, cfg *config.Config) (float64, error) {
	if arg == "" {
		return cfg.CellSize, nil
	}

	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("CELL_SIZE must be a positive number, got %q", arg)
	}

	return v, nil
}

// loadConfig loads the config file, falling back to built-in defaults when it
// does not exist. Any other read or parse failure is fatal.
func loadConfig(path string) *config.Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No configuration file, using defaults")
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load configuration")
	}

	return cfg
}
