package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Rect is an axis-aligned rectangle in geographic coordinates.
type Rect struct {
	Left   float64
	Right  float64
	Bottom float64
	Top    float64
}

// ContainsPoint reports whether p lies inside the half-open rectangle
// [Left,Right) x [Bottom,Top). A point exactly on the right or top edge
// belongs to the neighboring rectangle, so a lattice of adjacent rectangles
// bins every point at most once.
func (r Rect) ContainsPoint(p orb.Point) bool {
	return p.Lon() >= r.Left && p.Lon() < r.Right &&
		p.Lat() >= r.Bottom && p.Lat() < r.Top
}

// containsInclusive is the closed-rectangle variant used by the intersects
// predicate, where shared edges and vertices count.
func (r Rect) containsInclusive(p orb.Point) bool {
	return p.Lon() >= r.Left && p.Lon() <= r.Right &&
		p.Lat() >= r.Bottom && p.Lat() <= r.Top
}

// Corners returns the rectangle corners in top-left, top-right, bottom-right,
// bottom-left order.
func (r Rect) Corners() [4]orb.Point {
	return [4]orb.Point{
		{r.Left, r.Top},
		{r.Right, r.Top},
		{r.Right, r.Bottom},
		{r.Left, r.Bottom},
	}
}

// IntersectsRing reports whether the rectangle and the closed ring share any
// area or boundary. Shared edges and single shared vertices count as
// intersecting. The ring must be closed (first vertex == last vertex).
func (r Rect) IntersectsRing(ring orb.Ring) bool {
	if len(ring) == 0 {
		return false
	}

	b := ring.Bound()
	if r.Right < b.Min.Lon() || r.Left > b.Max.Lon() ||
		r.Top < b.Min.Lat() || r.Bottom > b.Max.Lat() {
		return false
	}

	// Any ring vertex on or inside the rectangle.
	for _, v := range ring {
		if r.containsInclusive(v) {
			return true
		}
	}

	// Any rectangle corner on or inside the ring (covers the rectangle being
	// fully contained in the polygon).
	for _, c := range r.Corners() {
		if PointInRing(ring, c) {
			return true
		}
	}

	// Any rectangle edge crossing or touching a ring edge.
	corners := r.Corners()
	for i := 0; i < 4; i++ {
		p1 := corners[i]
		p2 := corners[(i+1)%4]
		for j := 0; j < len(ring)-1; j++ {
			if segmentsIntersect(p1, p2, ring[j], ring[j+1]) {
				return true
			}
		}
	}

	return false
}

// PointInRing reports whether p lies inside the closed ring or exactly on its
// boundary. planar.RingContains treats on-boundary points as contained, which
// is the inclusive convention the intersects predicate needs.
func PointInRing(ring orb.Ring, p orb.Point) bool {
	return planar.RingContains(ring, p)
}

// cross returns the z-component of (b-a) x (c-a): positive for a left turn,
// negative for a right turn, zero when collinear.
func cross(a, b, c orb.Point) float64 {
	return (b.Lon()-a.Lon())*(c.Lat()-a.Lat()) - (b.Lat()-a.Lat())*(c.Lon()-a.Lon())
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(a, b, p orb.Point) bool {
	if cross(a, b, p) != 0 {
		return false
	}
	return min(a.Lon(), b.Lon()) <= p.Lon() && p.Lon() <= max(a.Lon(), b.Lon()) &&
		min(a.Lat(), b.Lat()) <= p.Lat() && p.Lat() <= max(a.Lat(), b.Lat())
}

// segmentsIntersect reports whether segments p1p2 and q1q2 share any point,
// including endpoint touches and collinear overlap.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if d2 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, q2) {
		return true
	}

	return false
}
