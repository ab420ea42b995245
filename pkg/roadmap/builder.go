package roadmap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/spatial"
)

// contextCheckInterval is how many nodes are processed between
// cancellation checks.
const contextCheckInterval = 256

type buildOptions struct {
	workers int
}

// Option configures Build.
type Option func(*buildOptions)

// WithWorkers runs neighbour queries on n goroutines. Values below 2 keep
// the build sequential. The resulting graph is the same either way.
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// Build connects every pair of points that lie within radius of each other.
//
// For each node i the index is asked for its neighbours; each neighbour
// j != i yields the edge (i, j) weighted by the Euclidean distance between
// the two points, unless the edge is already present. idx must have been
// built over points; a nil idx builds the default R-tree.
//
// Isolated nodes and edgeless graphs are normal results. The only errors
// are cancellation and an index that returns positions outside points.
func Build(ctx context.Context, points []geometry.Point, radius float64, idx spatial.Index, opts ...Option) (*Graph, error) {
	o := buildOptions{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if idx == nil {
		idx = spatial.NewRTree(points)
	}

	// Step 1: Query neighbours for every node.
	var (
		neighbors [][]int
		err       error
	)
	if o.workers > 1 && len(points) > 1 {
		neighbors, err = queryParallel(ctx, points, radius, idx, o.workers)
	} else {
		neighbors, err = querySequential(ctx, points, radius, idx)
	}
	if err != nil {
		return nil, err
	}

	// Step 2: Insert edges in node order so the graph does not depend on
	// how the queries were scheduled.
	g := NewGraph(len(points))
	for i, ids := range neighbors {
		for _, j := range ids {
			if j == i {
				continue
			}
			if j < 0 || j >= len(points) {
				return nil, fmt.Errorf("index returned neighbour %d for node %d: %w", j, i, ErrNodeOutOfRange)
			}
			if _, err := g.AddEdge(i, j, points[i].Distance(points[j])); err != nil {
				return nil, fmt.Errorf("failed to add edge (%d, %d): %w", i, j, err)
			}
		}
	}

	return g, nil
}

func querySequential(ctx context.Context, points []geometry.Point, radius float64, idx spatial.Index) ([][]int, error) {
	neighbors := make([][]int, len(points))
	for i, p := range points {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		neighbors[i] = idx.QueryRadius(p, radius)
	}
	return neighbors, nil
}

// queryParallel splits the nodes into contiguous stripes. Each worker
// writes only the slots of its own stripe, so no locking is needed.
func queryParallel(ctx context.Context, points []geometry.Point, radius float64, idx spatial.Index, workers int) ([][]int, error) {
	neighbors := make([][]int, len(points))
	if workers > len(points) {
		workers = len(points)
	}
	stripe := (len(points) + workers - 1) / workers

	eg, egCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(points); start += stripe {
		start := start
		end := min(start+stripe, len(points))
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%contextCheckInterval == 0 {
					if err := egCtx.Err(); err != nil {
						return err
					}
				}
				neighbors[i] = idx.QueryRadius(points[i], radius)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return neighbors, nil
}
