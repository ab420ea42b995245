// Package sampler draws the random configurations a roadmap is built from.
package sampler

import (
	"math/rand"
	"time"

	"prm-planner/pkg/geometry"
)

// Sampler produces uniformly distributed points inside a square region.
// A Sampler is not safe for concurrent use; it owns its random source.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler that draws from rng. A nil rng falls back to a
// time-seeded source.
func New(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// NewSeeded creates a sampler whose output is fully determined by seed.
func NewSeeded(seed int64) *Sampler {
	return New(rand.New(rand.NewSource(seed)))
}

// Generate returns count points with each coordinate drawn independently
// from [b.Min, b.Max]. Coincident points are allowed. The bounds are
// assumed valid (Min <= Max).
func (s *Sampler) Generate(count int, b geometry.Bounds) []geometry.Point {
	if count <= 0 {
		return []geometry.Point{}
	}

	points := make([]geometry.Point, count)
	for i := range points {
		points[i] = geometry.Point{
			X: s.coord(b),
			Y: s.coord(b),
		}
	}
	return points
}

func (s *Sampler) coord(b geometry.Bounds) float64 {
	v := b.Min + s.rng.Float64()*(b.Max-b.Min)
	// rounding can push min + f*(max-min) past max
	if v > b.Max {
		return b.Max
	}
	return v
}
