// Package search finds shortest paths on a roadmap with A*.
package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"slices"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/roadmap"
)

// contextCheckInterval is how many expansions happen between cancellation
// checks.
const contextCheckInterval = 64

var (
	// ErrInvalidNode is returned when start or goal is not a node of the graph.
	ErrInvalidNode = errors.New("invalid node")

	// ErrSearchAborted is returned when the context ends before the search
	// finishes. It is distinct from a search that found no path.
	ErrSearchAborted = errors.New("search aborted")

	// ErrNotAdjacent is returned by PathCost when two consecutive nodes
	// share no edge.
	ErrNotAdjacent = errors.New("nodes not adjacent")
)

// Heuristic estimates the remaining cost from one node to another. It must
// never overestimate for the result to be optimal.
type Heuristic func(from, to int) float64

// Euclidean returns the straight-line distance heuristic over points.
func Euclidean(points []geometry.Point) Heuristic {
	return func(from, to int) float64 {
		return points[from].Distance(points[to])
	}
}

// Zero turns A* into Dijkstra's algorithm.
func Zero(_, _ int) float64 { return 0 }

// Path is an ordered sequence of node indices from start to goal.
type Path struct {
	Nodes    []int   `json:"nodes"`
	Cost     float64 `json:"cost"`
	Expanded int     `json:"expanded"` // nodes popped from the open set
}

// node represents a node in the A* search
type node struct {
	id     int     // index of the node in the graph
	g      float64 // cost from start to this node
	h      float64 // heuristic cost from this node to the goal
	f      float64 // total cost (g + h)
	parent *node
	index  int // index in the heap
}

// priorityQueue implements heap.Interface. Equal f values are ordered by
// lower h, then by lower node index.
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.id < b.id
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*pq = old[:last]
	return n
}

// FindPath computes the shortest path from start to goal using A*.
//
// found is false when the goal is unreachable; that is a normal outcome and
// err is nil. A nil heuristic behaves like Zero.
func FindPath(ctx context.Context, g *roadmap.Graph, start, goal int, h Heuristic) (Path, bool, error) {
	numNodes := 0
	if g != nil {
		numNodes = g.NumNodes()
	}
	if start < 0 || start >= numNodes {
		return Path{}, false, fmt.Errorf("%w: start %d (nodes: %d)", ErrInvalidNode, start, numNodes)
	}
	if goal < 0 || goal >= numNodes {
		return Path{}, false, fmt.Errorf("%w: goal %d (nodes: %d)", ErrInvalidNode, goal, numNodes)
	}
	if h == nil {
		h = Zero
	}

	openSet := &priorityQueue{}
	heap.Init(openSet)

	startNode := &node{id: start, h: h(start, goal)}
	startNode.f = startNode.h
	heap.Push(openSet, startNode)

	openSetMap := map[int]*node{start: startNode}
	closedSet := make(map[int]bool)

	expanded := 0
	for openSet.Len() > 0 {
		if expanded%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Path{}, false, fmt.Errorf("%w after %d expansions: %w", ErrSearchAborted, expanded, err)
			}
		}

		current := heap.Pop(openSet).(*node)
		delete(openSetMap, current.id)
		expanded++

		if current.id == goal {
			return Path{Nodes: reconstruct(current), Cost: current.g, Expanded: expanded}, true, nil
		}

		closedSet[current.id] = true

		for _, edge := range g.Neighbors(current.id) {
			if closedSet[edge.To] {
				continue
			}

			tentativeG := current.g + edge.Cost

			neighbor, exists := openSetMap[edge.To]
			if !exists {
				neighbor = &node{
					id:     edge.To,
					g:      tentativeG,
					h:      h(edge.To, goal),
					parent: current,
				}
				neighbor.f = neighbor.g + neighbor.h
				heap.Push(openSet, neighbor)
				openSetMap[edge.To] = neighbor
			} else if tentativeG < neighbor.g {
				neighbor.g = tentativeG
				neighbor.f = neighbor.g + neighbor.h
				neighbor.parent = current
				heap.Fix(openSet, neighbor.index)
			}
		}
	}

	return Path{Expanded: expanded}, false, nil
}

func reconstruct(goal *node) []int {
	var nodes []int
	for n := goal; n != nil; n = n.parent {
		nodes = append(nodes, n.id)
	}
	slices.Reverse(nodes)
	return nodes
}

// PathCost sums the edge weights along nodes. Every consecutive pair must
// be an edge of g.
func PathCost(g *roadmap.Graph, nodes []int) (float64, error) {
	for _, id := range nodes {
		if id < 0 || id >= g.NumNodes() {
			return 0, fmt.Errorf("%w: %d (nodes: %d)", ErrInvalidNode, id, g.NumNodes())
		}
	}

	cost := 0.0
	for i := 1; i < len(nodes); i++ {
		w, ok := g.Weight(nodes[i-1], nodes[i])
		if !ok {
			return 0, fmt.Errorf("%w: %d -> %d", ErrNotAdjacent, nodes[i-1], nodes[i])
		}
		cost += w
	}
	return cost, nil
}
