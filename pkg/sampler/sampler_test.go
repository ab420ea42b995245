package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prm-planner/pkg/geometry"
)

func TestGenerateCountAndBounds(t *testing.T) {
	b := geometry.Bounds{Min: -5, Max: 5}
	points := NewSeeded(1).Generate(500, b)

	require.Len(t, points, 500)
	for i, p := range points {
		assert.True(t, b.Contains(p), "point %d = %+v outside %+v", i, p, b)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	b := geometry.Bounds{Min: 0, Max: 100}

	first := NewSeeded(42).Generate(50, b)
	second := NewSeeded(42).Generate(50, b)
	other := NewSeeded(43).Generate(50, b)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestGenerateZeroOrNegativeCount(t *testing.T) {
	s := NewSeeded(7)
	b := geometry.Bounds{Min: 0, Max: 1}

	assert.Empty(t, s.Generate(0, b))
	assert.NotNil(t, s.Generate(0, b))
	assert.Empty(t, s.Generate(-3, b))
}

func TestGenerateDegenerateRegion(t *testing.T) {
	b := geometry.Bounds{Min: 2.5, Max: 2.5}
	for _, p := range NewSeeded(3).Generate(10, b) {
		assert.Equal(t, geometry.Point{X: 2.5, Y: 2.5}, p)
	}
}

func TestNewWithNilSource(t *testing.T) {
	s := New(nil)
	points := s.Generate(3, geometry.Bounds{Min: 0, Max: 1})
	assert.Len(t, points, 3)
}
