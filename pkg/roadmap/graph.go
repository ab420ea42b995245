// Package roadmap builds the undirected weighted graph of a probabilistic
// roadmap. Nodes are plain indices into the point set the roadmap was built
// from; the graph never holds the points themselves.
package roadmap

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNodeOutOfRange is returned when an edge names a node the graph
	// does not have.
	ErrNodeOutOfRange = errors.New("node index out of range")

	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = errors.New("self loop")

	// ErrInvalidWeight is returned for negative, NaN or infinite weights.
	ErrInvalidWeight = errors.New("invalid edge weight")
)

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Euclidean distance
}

// EdgeRecord is one undirected edge, stored once with A < B.
type EdgeRecord struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	Weight float64 `json:"weight"`
}

type edgeKey struct{ a, b int }

func makeKey(i, j int) edgeKey {
	if i > j {
		i, j = j, i
	}
	return edgeKey{a: i, b: j}
}

// Graph is an undirected weighted graph over node indices 0..NumNodes()-1.
// It holds no self loops and at most one edge per unordered pair.
//
// Graph is not safe for concurrent mutation. Once construction is done it
// can be read from any number of goroutines.
type Graph struct {
	adj   [][]Edge
	edges []EdgeRecord
	seen  map[edgeKey]int
}

// NewGraph creates an edgeless graph with numNodes nodes.
func NewGraph(numNodes int) *Graph {
	if numNodes < 0 {
		numNodes = 0
	}
	return &Graph{
		adj:  make([][]Edge, numNodes),
		seen: make(map[edgeKey]int),
	}
}

// AddEdge inserts the undirected edge (i, j). It reports false without
// error when the edge already exists; the first weight stored wins.
func (g *Graph) AddEdge(i, j int, weight float64) (bool, error) {
	if i < 0 || i >= len(g.adj) {
		return false, fmt.Errorf("%w: %d (nodes: %d)", ErrNodeOutOfRange, i, len(g.adj))
	}
	if j < 0 || j >= len(g.adj) {
		return false, fmt.Errorf("%w: %d (nodes: %d)", ErrNodeOutOfRange, j, len(g.adj))
	}
	if i == j {
		return false, fmt.Errorf("%w at node %d", ErrSelfLoop, i)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return false, fmt.Errorf("%w: %v on (%d, %d)", ErrInvalidWeight, weight, i, j)
	}

	key := makeKey(i, j)
	if _, ok := g.seen[key]; ok {
		return false, nil
	}

	g.seen[key] = len(g.edges)
	g.edges = append(g.edges, EdgeRecord{A: key.a, B: key.b, Weight: weight})
	g.adj[i] = append(g.adj[i], Edge{To: j, Cost: weight})
	g.adj[j] = append(g.adj[j], Edge{To: i, Cost: weight})
	return true, nil
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.adj)
}

// NumEdges returns the number of undirected edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Neighbors returns the edges incident to node i in insertion order.
// The returned slice must not be modified.
func (g *Graph) Neighbors(i int) []Edge {
	if i < 0 || i >= len(g.adj) {
		return nil
	}
	return g.adj[i]
}

// Degree returns the number of edges incident to node i.
func (g *Graph) Degree(i int) int {
	return len(g.Neighbors(i))
}

// HasEdge reports whether i and j are adjacent.
func (g *Graph) HasEdge(i, j int) bool {
	_, ok := g.seen[makeKey(i, j)]
	return ok
}

// Weight returns the weight of edge (i, j).
func (g *Graph) Weight(i, j int) (float64, bool) {
	pos, ok := g.seen[makeKey(i, j)]
	if !ok {
		return 0, false
	}
	return g.edges[pos].Weight, true
}

// Edges returns every edge once, in insertion order. The returned slice is
// a copy.
func (g *Graph) Edges() []EdgeRecord {
	out := make([]EdgeRecord, len(g.edges))
	copy(out, g.edges)
	return out
}

// Isolated returns the nodes with no incident edges.
func (g *Graph) Isolated() []int {
	var nodes []int
	for i, edges := range g.adj {
		if len(edges) == 0 {
			nodes = append(nodes, i)
		}
	}
	return nodes
}
