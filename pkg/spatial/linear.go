package spatial

import "prm-planner/pkg/geometry"

// Linear answers queries by checking every point. It defines the reference
// semantics the tree indexes are tested against.
type Linear struct {
	points []geometry.Point
}

// NewLinear wraps points without preprocessing.
func NewLinear(points []geometry.Point) *Linear {
	return &Linear{points: points}
}

// Len returns the number of indexed points.
func (l *Linear) Len() int {
	return len(l.points)
}

// QueryRadius returns the indices of points within radius of center.
func (l *Linear) QueryRadius(center geometry.Point, radius float64) []int {
	ids := make([]int, 0)
	if radius < 0 {
		return ids
	}
	for i, p := range l.points {
		if within(center, p, radius) {
			ids = append(ids, i)
		}
	}
	return ids
}
