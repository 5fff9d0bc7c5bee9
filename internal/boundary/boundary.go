// Package boundary loads a city boundary GeoJSON document and extracts its
// outer ring.
package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnsupportedGeometry is returned when the document carries a geometry
	// that is neither Polygon nor MultiPolygon.
	ErrUnsupportedGeometry = errors.New("boundary: unsupported geometry type")

	// ErrNoFeatures is returned for a feature collection without features.
	ErrNoFeatures = errors.New("boundary: feature collection has no features")

	// ErrEmptyPolygon is returned for a polygon without rings or vertices.
	ErrEmptyPolygon = errors.New("boundary: polygon has no outer ring")
)

// Load reads a GeoJSON document and returns the boundary's closed outer ring.
// The document may be a FeatureCollection (first feature is used), a single
// Feature, or a bare geometry. A MultiPolygon contributes only its first
// polygon; additional members are dropped with a warning.
func Load(path string) (orb.Ring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	geom, err := extractGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if geom == nil {
		return nil, fmt.Errorf("parse %s: %w: null geometry", path, ErrUnsupportedGeometry)
	}

	var poly orb.Polygon
	switch g := geom.(type) {
	case orb.Polygon:
		poly = g
	case orb.MultiPolygon:
		if len(g) == 0 {
			return nil, ErrEmptyPolygon
		}
		if len(g) > 1 {
			log.Warn().
				Str("path", path).
				Int("dropped", len(g)-1).
				Msg("MultiPolygon boundary, using first polygon only")
		}
		poly = g[0]
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, geom.GeoJSONType())
	}

	if len(poly) == 0 || len(poly[0]) == 0 {
		return nil, ErrEmptyPolygon
	}

	ring := poly[0]
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}

	return ring, nil
}

// extractGeometry dispatches on the document's type member and unwraps the
// geometry of the first feature where needed.
func extractGeometry(data []byte) (orb.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		if len(fc.Features) == 0 {
			return nil, ErrNoFeatures
		}
		return fc.Features[0].Geometry, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return f.Geometry, nil

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		return g.Geometry(), nil
	}
}
