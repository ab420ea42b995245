package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature kinds, stored in the "kind" property.
const (
	KindNode = "node"
	KindEdge = "edge"
	KindPath = "path"
)

// GeoJSON converts d into a feature collection: one Point per node, one
// LineString per edge and, when a path was found, one LineString for it.
// Coordinates are planar x, y.
func GeoJSON(d *Document) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, n := range d.Nodes {
		f := geojson.NewFeature(n.Point.Orb())
		f.ID = n.ID
		f.Properties["kind"] = KindNode
		f.Properties["role"] = n.Role
		fc.Append(f)
	}

	for _, e := range d.Edges {
		line := orb.LineString{d.Nodes[e.A].Point.Orb(), d.Nodes[e.B].Point.Orb()}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = KindEdge
		f.Properties["a"] = e.A
		f.Properties["b"] = e.B
		f.Properties["weight"] = e.Weight
		fc.Append(f)
	}

	if d.Found {
		line := make(orb.LineString, len(d.Path))
		for i, id := range d.Path {
			line[i] = d.Nodes[id].Point.Orb()
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = KindPath
		f.Properties["cost"] = d.Cost
		f.Properties["waypoints"] = len(d.Path)
		fc.Append(f)
	}

	return fc
}
