// Package geo handles geographic primitives, coordinate conversions and the
// geometric predicates used for grid clipping and point binning.
package geo

import "math"

// metersPerDegree is the approximate length of one degree of latitude.
// Longitude degrees shrink by cos(latitude) away from the equator.
const metersPerDegree = 111000.0

// MetersToDegreesLat converts a distance in meters to degrees of latitude
// under a locally-flat equirectangular approximation.
func MetersToDegreesLat(m float64) float64 {
	return m / metersPerDegree
}

// MetersToDegreesLon converts a distance in meters to degrees of longitude
// at the given reference latitude. The error of the approximation grows with
// distance from that latitude, so callers should anchor it near the data.
func MetersToDegreesLon(m, refLat float64) float64 {
	return m / (metersPerDegree * math.Cos(refLat*math.Pi/180.0))
}
