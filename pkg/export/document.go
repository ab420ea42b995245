// Package export hands planning results to downstream consumers: a JSON
// roadmap document and a GeoJSON feature collection for map viewers.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/planner"
	"prm-planner/pkg/roadmap"
)

// Node roles.
const (
	RoleSample = "sample"
	RoleStart  = "start"
	RoleGoal   = "goal"
)

// ErrCorruptDocument is returned when a document does not describe a
// consistent roadmap.
var ErrCorruptDocument = errors.New("corrupt roadmap document")

// Node is one roadmap vertex.
type Node struct {
	ID    int            `json:"id"`
	Point geometry.Point `json:"point"`
	Role  string         `json:"role"`
}

// Document is the serialised form of a planning run.
type Document struct {
	RunID string `json:"runId"`
	Seed  *int64 `json:"seed,omitempty"`

	NumSamples       int             `json:"numSamples"`
	MapLimits        geometry.Bounds `json:"mapLimits"`
	ConnectionRadius float64         `json:"connectionRadius"`

	Nodes []Node               `json:"nodes"`
	Edges []roadmap.EdgeRecord `json:"edges"`
	Start int                  `json:"start"`
	Goal  int                  `json:"goal"`

	Found bool    `json:"found"`
	Path  []int   `json:"path"`
	Cost  float64 `json:"cost,omitempty"`

	Timings planner.Timings `json:"timingsNs"`
}

// FromResult builds the document for r.
func FromResult(r *planner.Result) *Document {
	doc := &Document{
		RunID:            r.RunID.String(),
		Seed:             r.Seed,
		NumSamples:       r.Config.Samples,
		MapLimits:        r.Config.Bounds,
		ConnectionRadius: r.Config.Radius,
		Nodes:            make([]Node, len(r.Points)),
		Edges:            r.EdgeList(),
		Start:            r.Start,
		Goal:             r.Goal,
		Found:            r.Found,
		Path:             []int{},
		Timings:          r.Timings,
	}
	if doc.Edges == nil {
		doc.Edges = []roadmap.EdgeRecord{}
	}

	for i, p := range r.Points {
		role := RoleSample
		switch i {
		case r.Start:
			role = RoleStart
		case r.Goal:
			role = RoleGoal
		}
		doc.Nodes[i] = Node{ID: i, Point: p, Role: role}
	}

	if r.Found {
		doc.Path = r.Path.Nodes
		doc.Cost = r.Path.Cost
	}
	return doc
}

// Points returns the node coordinates indexed by node id.
func (d *Document) Points() []geometry.Point {
	pts := make([]geometry.Point, len(d.Nodes))
	for i, n := range d.Nodes {
		pts[i] = n.Point
	}
	return pts
}

// Graph rebuilds the roadmap stored in d.
func (d *Document) Graph() (*roadmap.Graph, error) {
	for i, n := range d.Nodes {
		if n.ID != i {
			return nil, fmt.Errorf("%w: node at position %d has id %d", ErrCorruptDocument, i, n.ID)
		}
	}

	g := roadmap.NewGraph(len(d.Nodes))
	for _, e := range d.Edges {
		if _, err := g.AddEdge(e.A, e.B, e.Weight); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
		}
	}
	return g, nil
}

// LineStrings returns every edge as a segment, for drawing.
func (d *Document) LineStrings() [][]geometry.Point {
	lines := make([][]geometry.Point, 0, len(d.Edges))
	for _, e := range d.Edges {
		lines = append(lines, []geometry.Point{d.Nodes[e.A].Point, d.Nodes[e.B].Point})
	}
	return lines
}

// Encode writes v as indented JSON.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	return nil
}

// WriteJSON serialises v and saves it to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadDocument loads a document saved with WriteJSON.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}
