package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetersToDegreesLat(t *testing.T) {
	assert.InDelta(t, 1.0, MetersToDegreesLat(111000), 1e-12)
	assert.InDelta(t, 0.5, MetersToDegreesLat(55500), 1e-12)
	assert.Equal(t, 0.0, MetersToDegreesLat(0))
}

func TestMetersToDegreesLonAtEquator(t *testing.T) {
	// At the equator a longitude degree has the same length as a latitude degree.
	assert.InDelta(t, MetersToDegreesLat(500), MetersToDegreesLon(500, 0), 1e-12)
}

func TestMetersToDegreesLonShrinksWithLatitude(t *testing.T) {
	// cos(60°) = 0.5, so a meter spans twice as many longitude degrees.
	at60 := MetersToDegreesLon(1000, 60)
	atEq := MetersToDegreesLon(1000, 0)
	assert.InDelta(t, 2.0, at60/atEq, 1e-9)

	// Monotonic: farther from the equator, more degrees per meter.
	assert.Greater(t, MetersToDegreesLon(1000, 52), MetersToDegreesLon(1000, 41))
}

func TestMetersToDegreesLonSymmetric(t *testing.T) {
	north := MetersToDegreesLon(750, 48.2)
	south := MetersToDegreesLon(750, -48.2)
	assert.True(t, math.Abs(north-south) < 1e-12)
}
