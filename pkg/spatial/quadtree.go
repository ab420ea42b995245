package spatial

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"prm-planner/pkg/geometry"
)

// quadEntry lets a node index travel through the quadtree.
type quadEntry struct {
	id    int
	point orb.Point
}

func (e quadEntry) Point() orb.Point { return e.point }

// Quadtree is an Index backed by orb's point quadtree.
type Quadtree struct {
	tree *quadtree.Quadtree
	n    int
}

// NewQuadtree builds a quadtree over the bounding box of points.
func NewQuadtree(points []geometry.Point) (*Quadtree, error) {
	tree := quadtree.New(geometry.BoundingBox(points))
	for i, p := range points {
		if err := tree.Add(quadEntry{id: i, point: p.Orb()}); err != nil {
			return nil, fmt.Errorf("failed to add point %d to quadtree: %w", i, err)
		}
	}
	return &Quadtree{tree: tree, n: len(points)}, nil
}

// Len returns the number of indexed points.
func (q *Quadtree) Len() int {
	return q.n
}

// QueryRadius returns the indices of points within radius of center.
func (q *Quadtree) QueryRadius(center geometry.Point, radius float64) []int {
	ids := make([]int, 0)
	if radius < 0 || q.n == 0 {
		return ids
	}

	ext := searchExtent(center, radius)
	box := orb.Bound{
		Min: orb.Point{center.X - ext, center.Y - ext},
		Max: orb.Point{center.X + ext, center.Y + ext},
	}
	hits := q.tree.InBoundMatching(nil, box, func(p orb.Pointer) bool {
		return within(center, geometry.FromOrb(p.Point()), radius)
	})

	for _, hit := range hits {
		ids = append(ids, hit.(quadEntry).id)
	}
	return sortedIDs(ids)
}
