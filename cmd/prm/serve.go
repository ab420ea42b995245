package main

import (
	"github.com/spf13/cobra"

	"prm-planner/pkg/api"
)

func newServeCmd(a *app) *cobra.Command {
	var cfg api.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Start an HTTP server with these endpoints:
  POST /plan            plan with parameters in the JSON body
  GET  /roadmap         last roadmap as a document (?format=geojson)
  GET  /roadmap/lines   last roadmap edges as line segments
  GET  /health          status
  GET  /metrics         Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := api.NewServer(cfg, a.logger)
			return api.ListenAndServe(cmd.Context(), srv, a.logger)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cfg.CORSOrigin, "cors-origin", "", "CORS allowed origin (empty = same-origin)")
	return cmd
}
