package spatial

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"prm-planner/pkg/geometry"
)

// kdSampleSize is the number of elements sampled when choosing a pivot.
const kdSampleSize = 100

// kdPoint is a kdtree.Comparable that remembers its node index.
type kdPoint struct {
	id   int
	x, y float64
}

func (p kdPoint) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return p.x
	}
	return p.y
}

// Compare returns the signed distance of p from the plane through c
// perpendicular to d.
func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord(d) - c.(kdPoint).coord(d)
}

// Dims is always 2.
func (p kdPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int                { return kdPlane{Dim: d, kdPoints: p}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// kdPlane sorts kdPoints along one dimension.
type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.kdPoints[i].coord(p.Dim) < p.kdPoints[j].coord(p.Dim)
}
func (p kdPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfRandoms(p, kdSampleSize))
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[start:end]
	return p
}
func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}

// KDTree is an Index backed by gonum's k-d tree.
type KDTree struct {
	tree   *kdtree.Tree
	points []geometry.Point
}

// NewKDTree builds a balanced 2-d tree over points.
func NewKDTree(points []geometry.Point) *KDTree {
	kp := make(kdPoints, len(points))
	for i, p := range points {
		kp[i] = kdPoint{id: i, x: p.X, y: p.Y}
	}
	return &KDTree{
		tree:   kdtree.New(kp, false),
		points: points,
	}
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int {
	return t.tree.Len()
}

// QueryRadius returns the indices of points within radius of center.
func (t *KDTree) QueryRadius(center geometry.Point, radius float64) []int {
	ids := make([]int, 0)
	if radius < 0 || t.tree.Len() == 0 {
		return ids
	}

	ext := searchExtent(center, radius)
	keeper := kdtree.NewDistKeeper(ext * ext)
	t.tree.NearestSet(keeper, kdPoint{id: -1, x: center.X, y: center.Y})

	for _, c := range keeper.Heap {
		p, ok := c.Comparable.(kdPoint)
		if !ok {
			continue
		}
		if within(center, t.points[p.id], radius) {
			ids = append(ids, p.id)
		}
	}
	return sortedIDs(ids)
}
