package roadmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/sampler"
	"prm-planner/pkg/spatial"
)

func TestBuildTwoPoints(t *testing.T) {
	points := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}

	g, err := Build(context.Background(), points, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, []EdgeRecord{{A: 0, B: 1, Weight: 10}}, g.Edges())

	g, err = Build(context.Background(), points, 5, nil)
	require.NoError(t, err)
	assert.Zero(t, g.NumEdges())
	assert.Equal(t, 2, g.NumNodes())
}

func TestBuildEdgeIffWithinRadius(t *testing.T) {
	points := sampler.NewSeeded(3).Generate(250, geometry.Bounds{Min: 0, Max: 100})
	const radius = 9.0

	for _, kind := range spatial.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			idx, err := spatial.Build(kind, points)
			require.NoError(t, err)

			g, err := Build(context.Background(), points, radius, idx)
			require.NoError(t, err)

			for i := range points {
				for j := range points {
					if i == j {
						continue
					}
					d := points[i].Distance(points[j])
					require.Equal(t, d <= radius, g.HasEdge(i, j), "pair (%d, %d) at %v", i, j, d)
				}
			}

			for _, e := range g.Edges() {
				assert.Less(t, e.A, e.B)
				assert.InDelta(t, points[e.A].Distance(points[e.B]), e.Weight, 1e-12)
			}
		})
	}
}

func TestBuildNoSelfLoopsOrDuplicates(t *testing.T) {
	points := []geometry.Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}}

	g, err := Build(context.Background(), points, 0.5, nil)
	require.NoError(t, err)

	// the three coincident points form a triangle with zero weights
	assert.Equal(t, 3, g.NumEdges())
	for i := range points {
		assert.False(t, g.HasEdge(i, i))
		seen := make(map[int]bool)
		for _, e := range g.Neighbors(i) {
			assert.False(t, seen[e.To], "duplicate neighbour %d of %d", e.To, i)
			seen[e.To] = true
		}
	}
	w, ok := g.Weight(0, 3)
	require.True(t, ok)
	assert.Zero(t, w)
	assert.Equal(t, []int{2}, g.Isolated())
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	points := sampler.NewSeeded(99).Generate(600, geometry.Bounds{Min: -50, Max: 50})

	seq, err := Build(context.Background(), points, 6, nil)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 1000} {
		par, err := Build(context.Background(), points, 6, nil, WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, seq.Edges(), par.Edges(), "workers=%d", workers)
	}
}

func TestBuildEmptyAndSingle(t *testing.T) {
	g, err := Build(context.Background(), nil, 10, nil)
	require.NoError(t, err)
	assert.Zero(t, g.NumNodes())

	g, err = Build(context.Background(), []geometry.Point{{X: 3, Y: 3}}, 10, nil, WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumNodes())
	assert.Zero(t, g.NumEdges())
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	points := sampler.NewSeeded(1).Generate(50, geometry.Bounds{Min: 0, Max: 10})

	_, err := Build(ctx, points, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Build(ctx, points, 2, nil, WithWorkers(4))
	assert.ErrorIs(t, err, context.Canceled)
}

type badIndex struct{}

func (badIndex) QueryRadius(geometry.Point, float64) []int { return []int{7} }
func (badIndex) Len() int                                  { return 1 }

func TestBuildRejectsForeignIndex(t *testing.T) {
	_, err := Build(context.Background(), []geometry.Point{{X: 0, Y: 0}}, 1, badIndex{})
	assert.ErrorIs(t, err, ErrNodeOutOfRange)
}
