package search

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/roadmap"
	"prm-planner/pkg/sampler"
)

func buildRoadmap(t *testing.T, points []geometry.Point, radius float64) *roadmap.Graph {
	t.Helper()
	g, err := roadmap.Build(context.Background(), points, radius, nil)
	require.NoError(t, err)
	return g
}

// dijkstra computes reference distances with gonum.
func dijkstra(g *roadmap.Graph, start int) path.Shortest {
	ref := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < g.NumNodes(); i++ {
		ref.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		ref.SetWeightedEdge(ref.NewWeightedEdge(simple.Node(e.A), simple.Node(e.B), e.Weight))
	}
	return path.DijkstraFrom(simple.Node(start), ref)
}

func TestFindPathTwoPoints(t *testing.T) {
	points := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}

	g := buildRoadmap(t, points, 15)
	p, found, err := FindPath(context.Background(), g, 0, 1, Euclidean(points))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int{0, 1}, p.Nodes)
	assert.InDelta(t, 14.142135623730951, p.Cost, 1e-12)

	g = buildRoadmap(t, points, 5)
	p, found, err = FindPath(context.Background(), g, 0, 1, Euclidean(points))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, p.Nodes)
}

func TestFindPathIsOptimal(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		points := sampler.NewSeeded(seed).Generate(200, geometry.Bounds{Min: 0, Max: 100})
		g := buildRoadmap(t, points, 14)

		start, goal := 0, len(points)-1
		ref := dijkstra(g, start)
		want := ref.WeightTo(int64(goal))

		for name, h := range map[string]Heuristic{"euclidean": Euclidean(points), "zero": Zero, "nil": nil} {
			p, found, err := FindPath(context.Background(), g, start, goal, h)
			require.NoError(t, err)

			if math.IsInf(want, 1) {
				assert.False(t, found, "seed %d %s", seed, name)
				continue
			}
			require.True(t, found, "seed %d %s", seed, name)
			assert.Equal(t, start, p.Nodes[0])
			assert.Equal(t, goal, p.Nodes[len(p.Nodes)-1])
			assert.InDelta(t, want, p.Cost, 1e-9, "seed %d %s", seed, name)

			cost, err := PathCost(g, p.Nodes)
			require.NoError(t, err)
			assert.InDelta(t, p.Cost, cost, 1e-9)
		}
	}
}

func TestFindPathDisjointClusters(t *testing.T) {
	left := sampler.NewSeeded(7).Generate(30, geometry.Bounds{Min: 0, Max: 10})
	right := sampler.NewSeeded(8).Generate(30, geometry.Bounds{Min: 100, Max: 110})
	points := append(left, right...)
	g := buildRoadmap(t, points, 20)

	_, found, err := FindPath(context.Background(), g, 0, 45, Euclidean(points))
	require.NoError(t, err)
	assert.False(t, found)

	p, found, err := FindPath(context.Background(), g, 0, 29, Euclidean(points))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 29, p.Nodes[len(p.Nodes)-1])

	p, found, err = FindPath(context.Background(), g, 31, 59, Euclidean(points))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 31, p.Nodes[0])
}

func TestFindPathStartIsGoal(t *testing.T) {
	points := []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	g := buildRoadmap(t, points, 0.1)

	p, found, err := FindPath(context.Background(), g, 1, 1, Euclidean(points))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int{1}, p.Nodes)
	assert.Zero(t, p.Cost)
	assert.Equal(t, 1, p.Expanded)
}

func TestFindPathInvalidNode(t *testing.T) {
	g := roadmap.NewGraph(3)

	_, _, err := FindPath(context.Background(), g, 3, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidNode)
	assert.Contains(t, err.Error(), "start 3")

	_, _, err = FindPath(context.Background(), g, 0, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidNode)
	assert.Contains(t, err.Error(), "goal -1")

	_, _, err = FindPath(context.Background(), nil, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestFindPathAborted(t *testing.T) {
	points := sampler.NewSeeded(5).Generate(100, geometry.Bounds{Min: 0, Max: 10})
	g := buildRoadmap(t, points, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, found, err := FindPath(ctx, g, 0, 99, Euclidean(points))
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrSearchAborted)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, _, err = FindPath(ctx, g, 0, 99, Euclidean(points))
	assert.ErrorIs(t, err, ErrSearchAborted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFindPathTieBreaking(t *testing.T) {
	// unit square: 0-1-3 and 0-2-3 both cost 2
	points := []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	g := buildRoadmap(t, points, 1)
	require.Equal(t, 4, g.NumEdges())

	for i := 0; i < 10; i++ {
		p, found, err := FindPath(context.Background(), g, 0, 3, Euclidean(points))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []int{0, 1, 3}, p.Nodes)
		assert.Equal(t, 3, p.Expanded)
	}

	p, _, err := FindPath(context.Background(), g, 0, 3, Zero)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, p.Nodes)
	assert.Equal(t, 4, p.Expanded)
}

func TestPathCost(t *testing.T) {
	g := roadmap.NewGraph(3)
	_, err := g.AddEdge(0, 1, 2)
	require.NoError(t, err)
	_, err = g.AddEdge(1, 2, 3)
	require.NoError(t, err)

	cost, err := PathCost(g, []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 5.0, cost)

	cost, err = PathCost(g, []int{2})
	require.NoError(t, err)
	assert.Zero(t, cost)

	_, err = PathCost(g, []int{0, 2})
	assert.ErrorIs(t, err, ErrNotAdjacent)

	_, err = PathCost(g, []int{0, 7})
	assert.ErrorIs(t, err, ErrInvalidNode)
}
