// Package writer assembles the output GeoJSON feature collection and
// serializes it to the run artifact.
package writer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"

	"github.com/mglazov/pricegrid/internal/grid"

	"github.com/rs/zerolog/log"
)

// FeatureCollection is the output artifact: one feature per populated cell.
// It follows the standard GeoJSON structure with a named CRS member.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	CRS      CRS       `json:"crs"`
	Features []Feature `json:"features"`
}

// CRS is the coordinate-reference-system tag, fixed to EPSG:4326.
type CRS struct {
	Type       string        `json:"type"`
	Properties CRSProperties `json:"properties"`
}

// CRSProperties carries the CRS identifier.
type CRSProperties struct {
	Name string `json:"name"`
}

// Feature is one populated grid cell with its rectangle geometry.
type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

// Properties is the per-cell schema consumed by the downstream renderer.
// Bound values are emitted unrounded so shared edges of adjacent cells stay
// bit-identical; prices are rounded to 2 decimal places here and only here.
type Properties struct {
	ID            int     `json:"id"`
	Left          float64 `json:"left"`
	Top           float64 `json:"top"`
	Right         float64 `json:"right"`
	Bottom        float64 `json:"bottom"`
	PriceMin      float64 `json:"price_min"`
	PriceMax      float64 `json:"price_max"`
	PriceMean     float64 `json:"price_mean"`
	ListingsCount int     `json:"listings_count"`
}

// Geometry is the cell's Polygon geometry.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Summary holds run-level statistics logged after writing. Operator
// visibility only, never persisted.
type Summary struct {
	Features      int
	TotalListings int
	AvgListings   float64
	MeanPriceMin  float64
	MeanPriceMax  float64
	MeanPriceAvg  float64
}

// Build assembles the feature collection for a city and cell size from the
// populated cells, in cell order.
func Build(city string, cellSize int, cells []grid.PopulatedCell) FeatureCollection {
	fc := FeatureCollection{
		Type: "FeatureCollection",
		Name: fmt.Sprintf("%s_%d", city, cellSize),
		CRS: CRS{
			Type:       "name",
			Properties: CRSProperties{Name: "urn:ogc:def:crs:EPSG::4326"},
		},
		Features: make([]Feature, 0, len(cells)),
	}

	for _, c := range cells {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: Properties{
				ID:            c.ID,
				Left:          c.Rect.Left,
				Top:           c.Rect.Top,
				Right:         c.Rect.Right,
				Bottom:        c.Rect.Bottom,
				PriceMin:      round2(c.Stats.Min),
				PriceMax:      round2(c.Stats.Max),
				PriceMean:     round2(c.Stats.Mean),
				ListingsCount: c.Stats.Count,
			},
			Geometry: Geometry{
				Type: "Polygon",
				// Closed rectangle ring: TL -> TR -> BR -> BL -> TL.
				Coordinates: [][][2]float64{{
					{c.Rect.Left, c.Rect.Top},
					{c.Rect.Right, c.Rect.Top},
					{c.Rect.Right, c.Rect.Bottom},
					{c.Rect.Left, c.Rect.Bottom},
					{c.Rect.Left, c.Rect.Top},
				}},
			},
		})
	}

	return fc
}

// OutputPath derives the artifact path from the output directory, city and
// integer cell size. The same derivation is the downstream fetch contract.
func OutputPath(outputDir, city string, cellSize int) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_%d.geojson", city, cellSize))
}

// Write serializes the feature collection to path, creating parent
// directories as needed. Output is indented by default; compact runs the
// document through a JSON minifier instead.
func Write(fc FeatureCollection, path string, compact bool) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}

	if compact {
		m := minify.New()
		m.AddFunc("application/json", mjson.Minify)
		data, err = m.Bytes("application/json", data)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Summarize computes the run-level summary over populated cells.
func Summarize(cells []grid.PopulatedCell) Summary {
	s := Summary{Features: len(cells)}
	if len(cells) == 0 {
		return s
	}

	s.MeanPriceMin = math.Inf(1)
	s.MeanPriceMax = math.Inf(-1)
	meanSum := 0.0

	for _, c := range cells {
		s.TotalListings += c.Stats.Count
		if c.Stats.Mean < s.MeanPriceMin {
			s.MeanPriceMin = c.Stats.Mean
		}
		if c.Stats.Mean > s.MeanPriceMax {
			s.MeanPriceMax = c.Stats.Mean
		}
		meanSum += c.Stats.Mean
	}

	s.AvgListings = float64(s.TotalListings) / float64(len(cells))
	s.MeanPriceAvg = meanSum / float64(len(cells))

	return s
}

// LogSummary reports the summary on the run log.
func (s Summary) LogSummary(path string) {
	log.Info().
		Str("path", path).
		Int("features", s.Features).
		Int("listings_total", s.TotalListings).
		Float64("listings_avg", round2(s.AvgListings)).
		Float64("cell_mean_price_min", round2(s.MeanPriceMin)).
		Float64("cell_mean_price_max", round2(s.MeanPriceMax)).
		Float64("cell_mean_price_avg", round2(s.MeanPriceAvg)).
		Msg("Grid written")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
