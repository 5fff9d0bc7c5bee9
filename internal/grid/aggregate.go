package grid

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/mglazov/pricegrid/internal/listings"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50

	// pointExtent pads point entries so they form valid index rectangles;
	// the exact containment filter below decides actual membership.
	pointExtent = 1e-9
)

// Stats holds per-cell price aggregates over raw prices. Rounding for
// presentation happens in the writer, never here.
type Stats struct {
	Min   float64
	Max   float64
	Mean  float64
	Count int
}

// PopulatedCell is a kept cell with at least one matching listing.
type PopulatedCell struct {
	Cell
	Stats Stats
}

// listingItem wraps a Listing for R-tree indexing.
type listingItem struct {
	listing listings.Listing
	rect    *rtreego.Rect
}

func (li *listingItem) Bounds() *rtreego.Rect {
	return li.rect
}

// Aggregate bins listings into kept cells and computes per-cell price
// statistics. Membership uses the half-open [left,right) x [bottom,top)
// containment of geo.Rect, so a listing on a shared cell edge lands in
// exactly one cell. Cells without listings are dropped.
//
// Listings are indexed in an R-tree first; the intersect search only prunes
// candidates, the exact containment filter keeps results identical to a full
// scan of every listing per cell.
func Aggregate(cells []Cell, points []listings.Listing) []PopulatedCell {
	if len(cells) == 0 || len(points) == 0 {
		return nil
	}

	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	for _, l := range points {
		pt := rtreego.Point{l.Lon, l.Lat}
		tree.Insert(&listingItem{listing: l, rect: pt.ToRect(pointExtent)})
	}

	var out []PopulatedCell
	for _, cell := range cells {
		bounds, err := rtreego.NewRect(
			rtreego.Point{cell.Rect.Left, cell.Rect.Bottom},
			[]float64{cell.Rect.Right - cell.Rect.Left, cell.Rect.Top - cell.Rect.Bottom},
		)
		if err != nil {
			continue
		}

		var stats Stats
		sum := 0.0

		for _, result := range tree.SearchIntersect(bounds) {
			item, ok := result.(*listingItem)
			if !ok {
				continue
			}
			if !cell.Rect.ContainsPoint(orb.Point{item.listing.Lon, item.listing.Lat}) {
				continue
			}

			price := item.listing.Price
			if stats.Count == 0 || price < stats.Min {
				stats.Min = price
			}
			if stats.Count == 0 || price > stats.Max {
				stats.Max = price
			}
			sum += price
			stats.Count++
		}

		if stats.Count == 0 {
			continue
		}

		stats.Mean = sum / float64(stats.Count)
		out = append(out, PopulatedCell{Cell: cell, Stats: stats})
	}

	return out
}
