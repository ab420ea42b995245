// Package spatial answers fixed-radius neighbour queries over a point set.
//
// Every index is built once from the full point set, start and goal
// included, and is read-only afterwards: queries may run from several
// goroutines at once. A query returns the positions (indices into the
// slice the index was built from) of all points whose Euclidean distance to
// the query point is <= radius, sorted ascending. The query point's own
// index is part of the answer whenever it is a member of the set.
//
// The tree-backed implementations only narrow the candidate set; the final
// decision is always the same exact distance test, so every Kind returns
// identical answers for identical input.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"prm-planner/pkg/geometry"
)

// ErrUnknownKind is returned when an index kind name is not recognised.
var ErrUnknownKind = errors.New("unknown spatial index kind")

// Index is a read-only radius query structure.
type Index interface {
	// QueryRadius returns the sorted indices of all points within radius of p.
	QueryRadius(p geometry.Point, radius float64) []int

	// Len returns the number of indexed points.
	Len() int
}

// Kind selects an Index implementation.
type Kind int

const (
	// KindRTree uses an R-tree; the default.
	KindRTree Kind = iota
	// KindQuadtree uses a point quadtree.
	KindQuadtree
	// KindKDTree uses a 2-d tree.
	KindKDTree
	// KindLinear scans every point. Fine for small problems.
	KindLinear
)

var kindNames = map[Kind]string{
	KindRTree:    "rtree",
	KindQuadtree: "quadtree",
	KindKDTree:   "kdtree",
	KindLinear:   "linear",
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind. The empty string selects
// the default.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KindRTree, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindRTree, KindQuadtree, KindKDTree, KindLinear}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Build creates an index of the requested kind over points. The slice is
// not copied and must not be modified while the index is in use.
func Build(kind Kind, points []geometry.Point) (Index, error) {
	switch kind {
	case KindRTree:
		return NewRTree(points), nil
	case KindQuadtree:
		return NewQuadtree(points)
	case KindKDTree:
		return NewKDTree(points), nil
	case KindLinear:
		return NewLinear(points), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// within is the single acceptance test shared by every index.
func within(center, p geometry.Point, radius float64) bool {
	return center.Distance(p) <= radius
}

// searchExtent is the half-width of the box handed to a tree so that the
// box is guaranteed to cover the query circle despite rounding.
func searchExtent(center geometry.Point, radius float64) float64 {
	scale := math.Max(1, math.Max(math.Abs(radius),
		math.Max(math.Abs(center.X), math.Abs(center.Y))))
	return radius + scale*1e-9
}

func sortedIDs(ids []int) []int {
	sort.Ints(ids)
	return ids
}
