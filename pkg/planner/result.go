package planner

import (
	"time"

	"github.com/google/uuid"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/roadmap"
	"prm-planner/pkg/search"
)

// Result is the outcome of one planning run.
type Result struct {
	RunID  uuid.UUID
	Config Config

	// Seed is the seed the random source was created from. Nil when the
	// caller supplied its own source.
	Seed *int64

	Points []geometry.Point
	Start  int // node id of the start point
	Goal   int // node id of the goal point

	Graph      *roadmap.Graph
	Components *roadmap.Partition

	Path  search.Path
	Found bool

	Timings Timings
}

// Timings records how long each stage took.
type Timings struct {
	Sample  time.Duration `json:"sample"`
	Index   time.Duration `json:"index"`
	Roadmap time.Duration `json:"roadmap"`
	Search  time.Duration `json:"search"`
}

// Total is the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Sample + t.Index + t.Roadmap + t.Search
}

// EdgeList returns each roadmap edge once, with A < B.
func (r *Result) EdgeList() []roadmap.EdgeRecord {
	if r.Graph == nil {
		return nil
	}
	return r.Graph.Edges()
}

// PathPoints returns the coordinates along the path, or nil when no path
// was found.
func (r *Result) PathPoints() []geometry.Point {
	if !r.Found {
		return nil
	}
	pts := make([]geometry.Point, len(r.Path.Nodes))
	for i, id := range r.Path.Nodes {
		pts[i] = r.Points[id]
	}
	return pts
}
