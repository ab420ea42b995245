// Package geometry holds the planar primitives shared by every planning stage.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a location in the planning region.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.Orb(), other.Orb())
}

// IsFinite reports whether both coordinates are real numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Orb converts the point to its orb representation.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// FromOrb converts an orb point.
func FromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}
}

// Bounds is a square region; the same interval applies to both axes.
// Both ends are inclusive.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains checks if the point lies within the region, boundary included.
func (b Bounds) Contains(p Point) bool {
	return b.Orb().Contains(p.Orb())
}

// Orb returns the region as an orb bound.
func (b Bounds) Orb() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min, b.Min},
		Max: orb.Point{b.Max, b.Max},
	}
}

// Diagonal returns the length of the region's diagonal, the largest
// distance between any two points inside it.
func (b Bounds) Diagonal() float64 {
	return Point{X: b.Min, Y: b.Min}.Distance(Point{X: b.Max, Y: b.Max})
}

// BoundingBox returns the smallest orb bound containing every point.
// An empty slice yields the zero bound.
func BoundingBox(points []Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.Orb()
	}
	return mp.Bound()
}
