package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mglazov/pricegrid/internal/geo"
	"github.com/mglazov/pricegrid/internal/grid"
)

func samplePopulated() []grid.PopulatedCell {
	return []grid.PopulatedCell{
		{
			Cell: grid.Cell{
				ID: 3, Row: 0, Col: 2,
				Rect: geo.Rect{Left: 13.1, Right: 13.2, Bottom: 52.4, Top: 52.5},
			},
			Stats: grid.Stats{Min: 50, Max: 150, Mean: 100, Count: 3},
		},
		{
			Cell: grid.Cell{
				ID: 7, Row: 1, Col: 1,
				Rect: geo.Rect{Left: 13.0, Right: 13.1, Bottom: 52.5, Top: 52.6},
			},
			Stats: grid.Stats{Min: 80.004, Max: 119.999, Mean: 99.9985, Count: 2},
		},
	}
}

func TestBuildCollection(t *testing.T) {
	fc := Build("berlin", 200, samplePopulated())

	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Equal(t, "berlin_200", fc.Name)
	assert.Equal(t, "name", fc.CRS.Type)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::4326", fc.CRS.Properties.Name)
	require.Len(t, fc.Features, 2)

	f := fc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, 3, f.Properties.ID)
	assert.Equal(t, 13.1, f.Properties.Left)
	assert.Equal(t, 52.5, f.Properties.Top)
	assert.Equal(t, 13.2, f.Properties.Right)
	assert.Equal(t, 52.4, f.Properties.Bottom)
	assert.Equal(t, 50.0, f.Properties.PriceMin)
	assert.Equal(t, 150.0, f.Properties.PriceMax)
	assert.Equal(t, 100.0, f.Properties.PriceMean)
	assert.Equal(t, 3, f.Properties.ListingsCount)
}

func TestBuildRoundsPricesToTwoDecimals(t *testing.T) {
	fc := Build("berlin", 200, samplePopulated())

	p := fc.Features[1].Properties
	assert.Equal(t, 80.0, p.PriceMin)
	assert.Equal(t, 120.0, p.PriceMax)
	assert.Equal(t, 100.0, p.PriceMean)
}

func TestBuildPolygonRing(t *testing.T) {
	fc := Build("berlin", 200, samplePopulated())

	g := fc.Features[0].Geometry
	assert.Equal(t, "Polygon", g.Type)
	require.Len(t, g.Coordinates, 1)

	ring := g.Coordinates[0]
	require.Len(t, ring, 5)

	// top-left -> top-right -> bottom-right -> bottom-left -> top-left
	assert.Equal(t, [2]float64{13.1, 52.5}, ring[0])
	assert.Equal(t, [2]float64{13.2, 52.5}, ring[1])
	assert.Equal(t, [2]float64{13.2, 52.4}, ring[2])
	assert.Equal(t, [2]float64{13.1, 52.4}, ring[3])
	assert.Equal(t, ring[0], ring[4])
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("out", "berlin_200.geojson"),
		OutputPath("out", "berlin", 200))
}

func TestWriteDeterministic(t *testing.T) {
	fc := Build("berlin", 200, samplePopulated())
	dir := t.TempDir()

	first := filepath.Join(dir, "a.geojson")
	second := filepath.Join(dir, "b.geojson")
	require.NoError(t, Write(fc, first, false))
	require.NoError(t, Write(fc, second, false))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical inputs must produce identical artifacts")
	assert.True(t, json.Valid(a))
}

func TestWriteCreatesDirectories(t *testing.T) {
	fc := Build("berlin", 200, nil)
	path := filepath.Join(t.TempDir(), "nested", "dir", "berlin_200.geojson")

	require.NoError(t, Write(fc, path, false))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteCompact(t *testing.T) {
	fc := Build("berlin", 200, samplePopulated())
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.geojson")
	compact := filepath.Join(dir, "compact.geojson")
	require.NoError(t, Write(fc, plain, false))
	require.NoError(t, Write(fc, compact, true))

	a, err := os.ReadFile(plain)
	require.NoError(t, err)
	b, err := os.ReadFile(compact)
	require.NoError(t, err)

	assert.True(t, json.Valid(b))
	assert.Less(t, len(b), len(a))

	// Same document either way.
	var fa, fb FeatureCollection
	require.NoError(t, json.Unmarshal(a, &fa))
	require.NoError(t, json.Unmarshal(b, &fb))
	assert.Equal(t, fa, fb)
}

func TestSummarize(t *testing.T) {
	s := Summarize(samplePopulated())

	assert.Equal(t, 2, s.Features)
	assert.Equal(t, 5, s.TotalListings)
	assert.InDelta(t, 2.5, s.AvgListings, 1e-12)
	assert.InDelta(t, 99.9985, s.MeanPriceMin, 1e-12)
	assert.InDelta(t, 100.0, s.MeanPriceMax, 1e-12)
	assert.InDelta(t, (100.0+99.9985)/2, s.MeanPriceAvg, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}
