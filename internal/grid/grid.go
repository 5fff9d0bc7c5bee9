// Package grid lays out a uniform lattice over a boundary polygon, clips it
// to the boundary and bins price points into the surviving cells.
package grid

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"github.com/mglazov/pricegrid/internal/geo"

	"github.com/rs/zerolog/log"
)

// ErrEmptyBoundary is returned when the boundary ring has no vertices.
var ErrEmptyBoundary = errors.New("grid: empty boundary ring")

// Cell is one kept lattice cell. IDs are assigned row-major over the full
// lattice before clipping, so kept cells carry non-contiguous ids and
// ID == Row*Cols + Col + 1 always holds.
type Cell struct {
	ID   int
	Row  int
	Col  int
	Rect geo.Rect
}

// Grid holds the kept cells of a clipped lattice together with the lattice
// parameters needed to reconstruct cell positions.
type Grid struct {
	Cells   []Cell
	Rows    int
	Cols    int
	MinLon  float64
	MinLat  float64
	CellLon float64
	CellLat float64
}

// ReferenceLatitude returns the latitude used to anchor the meters-to-degrees
// conversion: the midpoint of the boundary's latitude extent. Anchoring at
// the boundary keeps the equirectangular error small for any input city.
func ReferenceLatitude(ring orb.Ring) float64 {
	b := ring.Bound()
	return (b.Min.Lat() + b.Max.Lat()) / 2.0
}

// Build computes the boundary's bounding box, lays out a row-major lattice of
// cellSize-by-cellSize meter cells over it and keeps the cells whose
// rectangle intersects the boundary (shared area or shared boundary counts).
func Build(ring orb.Ring, cellSize, refLat float64) (*Grid, error) {
	if len(ring) == 0 {
		return nil, ErrEmptyBoundary
	}

	b := ring.Bound()
	cellLon := geo.MetersToDegreesLon(cellSize, refLat)
	cellLat := geo.MetersToDegreesLat(cellSize)

	cols := int(math.Ceil((b.Max.Lon() - b.Min.Lon()) / cellLon))
	rows := int(math.Ceil((b.Max.Lat() - b.Min.Lat()) / cellLat))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &Grid{
		Rows:    rows,
		Cols:    cols,
		MinLon:  b.Min.Lon(),
		MinLat:  b.Min.Lat(),
		CellLon: cellLon,
		CellLat: cellLat,
	}

	// Every lattice position consumes an id, kept or not.
	id := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			id++

			rect := geo.Rect{
				Left:   b.Min.Lon() + float64(col)*cellLon,
				Bottom: b.Min.Lat() + float64(row)*cellLat,
			}
			rect.Right = rect.Left + cellLon
			rect.Top = rect.Bottom + cellLat

			if !rect.IntersectsRing(ring) {
				continue
			}

			g.Cells = append(g.Cells, Cell{ID: id, Row: row, Col: col, Rect: rect})
		}
	}

	log.Debug().
		Int("rows", rows).
		Int("cols", cols).
		Int("kept", len(g.Cells)).
		Msg("Lattice clipped to boundary")

	return g, nil
}
