package spatial

import (
	"github.com/dhconnelly/rtreego"

	"prm-planner/pkg/geometry"
)

// pointTolerance is the half-width of the box stored for each point.
const pointTolerance = 1e-12

// PointEntry wraps a roadmap node for R-tree storage
type PointEntry struct {
	ID    int
	Point geometry.Point
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *PointEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// RTree manages point radius queries
type RTree struct {
	tree *rtreego.Rtree
}

// NewRTree creates a new R-tree index, bulk loaded from points.
func NewRTree(points []geometry.Point) *RTree {
	entries := make([]rtreego.Spatial, len(points))
	for i, p := range points {
		entries[i] = &PointEntry{
			ID:    i,
			Point: p,
			BBox:  rtreego.Point{p.X, p.Y}.ToRect(pointTolerance),
		}
	}

	tree := rtreego.NewTree(2, 25, 50, entries...) // 2D, min 25, max 50 entries per node
	return &RTree{tree: tree}
}

// Len returns the number of indexed points.
func (rt *RTree) Len() int {
	return rt.tree.Size()
}

// QueryRadius returns points within radius of center
func (rt *RTree) QueryRadius(center geometry.Point, radius float64) []int {
	ids := make([]int, 0)
	if radius < 0 || rt.tree.Size() == 0 {
		return ids
	}

	bbox := rtreego.Point{center.X, center.Y}.ToRect(searchExtent(center, radius))
	results := rt.tree.SearchIntersect(bbox, radiusFilter(center, radius))

	for _, item := range results {
		ids = append(ids, item.(*PointEntry).ID)
	}
	return sortedIDs(ids)
}

// radiusFilter refuses box hits that fall outside the query circle.
func radiusFilter(center geometry.Point, radius float64) rtreego.Filter {
	return func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		entry := obj.(*PointEntry)
		return !within(center, entry.Point, radius), false
	}
}
