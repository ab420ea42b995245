package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}

	assert.InDelta(t, 5.0, a.Distance(b), 1e-12)
	assert.Equal(t, a.Distance(b), b.Distance(a), "distance must be symmetric")
	assert.Zero(t, a.Distance(a))
}

func TestBoundsContainsIsInclusive(t *testing.T) {
	b := Bounds{Min: 0, Max: 10}

	assert.True(t, b.Contains(Point{X: 0, Y: 0}))
	assert.True(t, b.Contains(Point{X: 10, Y: 10}))
	assert.True(t, b.Contains(Point{X: 5, Y: 10}))
	assert.False(t, b.Contains(Point{X: 10.0001, Y: 5}))
	assert.False(t, b.Contains(Point{X: 5, Y: -0.0001}))
}

func TestBoundsDiagonal(t *testing.T) {
	b := Bounds{Min: 0, Max: 10}
	assert.InDelta(t, 14.142135623730951, b.Diagonal(), 1e-12)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, Point{X: 1, Y: -2}.IsFinite())
	assert.False(t, Point{X: math.NaN(), Y: 0}.IsFinite())
	assert.False(t, Point{X: 0, Y: math.Inf(-1)}.IsFinite())
}

func TestOrbConversion(t *testing.T) {
	p := Point{X: 1.5, Y: -2.25}
	assert.Equal(t, orb.Point{1.5, -2.25}, p.Orb())
	assert.Equal(t, p, FromOrb(p.Orb()))
}

func TestBoundingBox(t *testing.T) {
	assert.Equal(t, orb.Bound{}, BoundingBox(nil))

	bb := BoundingBox([]Point{{X: 1, Y: 5}, {X: -2, Y: 3}, {X: 4, Y: 0}})
	assert.Equal(t, orb.Point{-2, 0}, bb.Min)
	assert.Equal(t, orb.Point{4, 5}, bb.Max)
}
