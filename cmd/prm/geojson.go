package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prm-planner/pkg/export"
)

func newGeoJSONCmd(a *app) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "geojson",
		Short: "Convert a saved roadmap document to GeoJSON",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			doc, err := export.ReadDocument(in)
			if err != nil {
				return err
			}
			if _, err := doc.Graph(); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}

			fc := export.GeoJSON(doc)
			if out == "" || out == "-" {
				return export.Encode(a.stdout, fc)
			}
			return export.WriteJSON(out, fc)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "roadmap document written by plan --format json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
