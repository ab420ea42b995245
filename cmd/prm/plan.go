package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prm-planner/pkg/config"
	"prm-planner/pkg/export"
	"prm-planner/pkg/planner"
)

const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
)

type planFlags struct {
	configPath    string
	seed          int64
	index         string
	workers       int
	samples       int
	radius        float64
	searchTimeout time.Duration
	out           string
	format        string
}

func newPlanCmd(a *app) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a roadmap and search it for a path",
		Long: `Read planning parameters from a YAML file, build a fresh roadmap and
search it from start to goal. Flags override values from the file.

The parameter file uses these keys:
  num_nodes, map_limits, connection_radius, start, goal
and optionally:
  seed, index, workers, search_timeout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "params.yaml", "parameter file")
	fl.Int64Var(&f.seed, "seed", 0, "random seed (overrides the file)")
	fl.StringVar(&f.index, "index", "", "spatial index: rtree, quadtree, kdtree, linear")
	fl.IntVar(&f.workers, "workers", 0, "goroutines used for neighbour queries")
	fl.IntVar(&f.samples, "samples", 0, "number of random samples (overrides num_nodes)")
	fl.Float64Var(&f.radius, "radius", 0, "connection radius (overrides connection_radius)")
	fl.DurationVar(&f.searchTimeout, "search-timeout", 0, "abort A* after this long")
	fl.StringVarP(&f.out, "out", "o", "", "write the result to this file, - for stdout")
	fl.StringVar(&f.format, "format", formatJSON, "output format: json or geojson")

	return cmd
}

func runPlan(cmd *cobra.Command, a *app, f planFlags) error {
	if f.format != formatJSON && f.format != formatGeoJSON {
		return fmt.Errorf("unknown format %q (want json or geojson)", f.format)
	}

	params, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cmd, params, f)

	cfg, err := params.Planner()
	if err != nil {
		return err
	}

	res, err := planner.Plan(cmd.Context(), cfg, planner.WithLogger(a.logger))
	if err != nil {
		return err
	}

	doc := export.FromResult(res)
	if f.out == "-" {
		return writeFormat(a, doc, f.format, "")
	}

	printSummary(a, res)
	if f.out != "" {
		if err := writeFormat(a, doc, f.format, f.out); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote %s to %s\n", f.format, f.out)
	}
	return nil
}

// applyOverrides copies explicitly set flags over the file values.
func applyOverrides(cmd *cobra.Command, params *config.File, f planFlags) {
	fl := cmd.Flags()
	if fl.Changed("seed") {
		params.Seed = &f.seed
	}
	if fl.Changed("index") {
		params.Index = f.index
	}
	if fl.Changed("workers") {
		params.Workers = f.workers
	}
	if fl.Changed("samples") {
		params.NumNodes = &f.samples
	}
	if fl.Changed("radius") {
		params.ConnectionRadius = &f.radius
	}
	if fl.Changed("search-timeout") {
		params.SearchTimeout = f.searchTimeout.String()
	}
}

func writeFormat(a *app, doc *export.Document, format, path string) error {
	var v any = doc
	if format == formatGeoJSON {
		v = export.GeoJSON(doc)
	}
	if path == "" {
		return export.Encode(a.stdout, v)
	}
	return export.WriteJSON(path, v)
}

func printSummary(a *app, res *planner.Result) {
	w := a.stdout
	if res.Found {
		fmt.Fprintln(w, "Path found!")
	} else {
		fmt.Fprintln(w, "No path found.")
	}

	fmt.Fprintf(w, "  run:        %s\n", res.RunID)
	if res.Seed != nil {
		fmt.Fprintf(w, "  seed:       %d\n", *res.Seed)
	}
	fmt.Fprintf(w, "  roadmap:    %d nodes, %d edges, %d components\n",
		res.Graph.NumNodes(), res.Graph.NumEdges(), res.Components.Count())
	if res.Found {
		fmt.Fprintf(w, "  path:       %d waypoints, cost %.4f\n", len(res.Path.Nodes), res.Path.Cost)
	}
	fmt.Fprintf(w, "  expanded:   %d nodes\n", res.Path.Expanded)
	fmt.Fprintf(w, "  elapsed:    %s\n", res.Timings.Total().Round(time.Microsecond))
}
