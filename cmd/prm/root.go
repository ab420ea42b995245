package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"prm-planner/pkg/logging"
)

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger

	logLevel string
	logJSON  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "prm",
		Short: "Probabilistic roadmap path planner",
		Long: `Plan paths across an open square region with a probabilistic roadmap:
random samples are connected to every neighbour within a radius and the
roadmap is searched with A*.

Examples:
  prm plan --config params.yaml
  prm plan --config params.yaml --seed 42 --out roadmap.geojson --format geojson
  prm serve --addr :8080 --cors-origin '*'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logging.New(logging.Config{
				Level:   level,
				JSON:    a.logJSON,
				Output:  a.stderr,
				Service: "prm",
			})
			slog.SetDefault(a.logger)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newPlanCmd(a),
		newServeCmd(a),
		newGeoJSONCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = io.WriteString(a.stdout, "prm "+version+"\n")
		},
	}
}
