// Package config reads planning parameters from YAML files and JSON request
// bodies and turns them into a planner.Config.
//
// A parameter file looks like:
//
//	num_nodes: 500
//	map_limits: [0, 100]
//	connection_radius: 10
//	start: [5, 5]
//	goal: [95, 95]
//	seed: 42            # optional
//	index: rtree        # optional: rtree, quadtree, kdtree, linear
//	workers: 4          # optional
//	search_timeout: 2s  # optional
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/planner"
	"prm-planner/pkg/spatial"
)

// ErrEmpty is returned when a parameter file or body has no content.
var ErrEmpty = errors.New("empty parameters")

// File mirrors the parameter file. Pointer and slice fields distinguish a
// missing key from a zero value.
type File struct {
	NumNodes         *int      `yaml:"num_nodes" json:"num_nodes"`
	MapLimits        []float64 `yaml:"map_limits" json:"map_limits"`
	ConnectionRadius *float64  `yaml:"connection_radius" json:"connection_radius"`
	Start            []float64 `yaml:"start" json:"start"`
	Goal             []float64 `yaml:"goal" json:"goal"`

	Seed          *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	Index         string `yaml:"index,omitempty" json:"index,omitempty"`
	Workers       int    `yaml:"workers,omitempty" json:"workers,omitempty"`
	SearchTimeout string `yaml:"search_timeout,omitempty" json:"search_timeout,omitempty"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML parameters. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}
	return &f, nil
}

// DecodeJSON decodes parameters from a JSON body. Unknown keys are
// rejected.
func DecodeJSON(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return &f, nil
}

// Planner converts f into a validated planner.Config. Shape problems and
// validation failures are both reported as *planner.ConfigError.
func (f *File) Planner() (planner.Config, error) {
	var cfg planner.Config

	if f.NumNodes == nil {
		return cfg, missing("num_nodes")
	}
	if f.ConnectionRadius == nil {
		return cfg, missing("connection_radius")
	}
	cfg.Samples = *f.NumNodes
	cfg.Radius = *f.ConnectionRadius

	limits, err := pair("map_limits", f.MapLimits, "[min, max]")
	if err != nil {
		return cfg, err
	}
	cfg.Bounds = geometry.Bounds{Min: limits[0], Max: limits[1]}

	start, err := pair("start", f.Start, "[x, y]")
	if err != nil {
		return cfg, err
	}
	cfg.Start = geometry.Point{X: start[0], Y: start[1]}

	goal, err := pair("goal", f.Goal, "[x, y]")
	if err != nil {
		return cfg, err
	}
	cfg.Goal = geometry.Point{X: goal[0], Y: goal[1]}

	cfg.Seed = f.Seed
	cfg.Workers = f.Workers

	cfg.Index, err = spatial.ParseKind(f.Index)
	if err != nil {
		return cfg, &planner.ConfigError{Field: "index", Reason: err.Error()}
	}

	if f.SearchTimeout != "" {
		cfg.SearchTimeout, err = time.ParseDuration(f.SearchTimeout)
		if err != nil {
			return cfg, &planner.ConfigError{Field: "search_timeout", Reason: err.Error()}
		}
	}

	return cfg, cfg.Validate()
}

func missing(field string) error {
	return &planner.ConfigError{Field: field, Reason: "is required"}
}

func pair(field string, v []float64, shape string) ([2]float64, error) {
	if v == nil {
		return [2]float64{}, missing(field)
	}
	if len(v) != 2 {
		return [2]float64{}, &planner.ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("must be %s, got %d values", shape, len(v)),
		}
	}
	return [2]float64{v[0], v[1]}, nil
}
