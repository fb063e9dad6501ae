package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomwalk/internal/config"
	"roomwalk/internal/logging"
	"roomwalk/internal/metrics"
	"roomwalk/internal/report"
	"roomwalk/internal/sim"
)

type runFlags struct {
	trials     int
	workers    int
	start      string
	outputs    []string
	graph      string
	configPath string
	format     string
	metrics    bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation and print the requested statistics",
		Long: `Run walks the maze --trials times from --start, spread over --workers
goroutines, and prints the requested outputs:

  raw     one line per walk with its step count, as walks finish
  mean    the mean walk length
  stdev   the sample standard deviation of the walk length
  counts  one "<steps>: <count>" line for every length in the observed range

Settings from --config are applied first; flags given on the command line win.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, &flags)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&flags.trials, "trials", "n", config.DefaultTrials, "Number of walks to run")
	f.IntVarP(&flags.workers, "workers", "j", config.DefaultWorkers(), "Number of parallel workers (default: $"+config.WorkersEnv+" or the CPU count)")
	f.StringVarP(&flags.start, "start", "s", config.DefaultStart, "Room every walk starts in")
	f.StringSliceVarP(&flags.outputs, "output", "o", []string{"mean", "stdev"}, "Outputs to print (raw, mean, stdev, counts); repeatable or comma-separated")
	f.StringVar(&flags.graph, "graph", "", "Graph definition file (YAML or JSON); default is the built-in six-room maze")
	f.StringVar(&flags.configPath, "config", "", "Run config file (YAML or JSON)")
	f.StringVar(&flags.format, "format", config.DefaultFormat, "Summary format (plain, table, markdown)")
	f.BoolVar(&flags.metrics, "metrics", false, "Write Prometheus metrics for the run to stderr")
	return cmd
}

// resolveRunConfig layers defaults, the config file and explicitly set flags.
func resolveRunConfig(cmd *cobra.Command, flags *runFlags) (config.RunConfig, error) {
	rc := config.Defaults()
	if flags.configPath != "" {
		fileCfg, err := config.LoadFromPath(flags.configPath)
		if err != nil {
			return rc, err
		}
		rc = rc.Overlay(*fileCfg)
	}

	var over config.RunConfig
	changed := cmd.Flags().Changed
	if changed("trials") {
		if flags.trials <= 0 {
			return rc, fmt.Errorf("%w: --trials must be positive, got %d", sim.ErrInvalidConfig, flags.trials)
		}
		over.Trials = flags.trials
	}
	if changed("workers") {
		if flags.workers <= 0 {
			return rc, fmt.Errorf("%w: --workers must be positive, got %d", sim.ErrInvalidConfig, flags.workers)
		}
		over.Workers = flags.workers
	}
	if changed("start") {
		over.Start = flags.start
	}
	if changed("output") {
		over.Outputs = flags.outputs
	}
	if changed("graph") {
		over.Graph = flags.graph
	}
	if changed("format") {
		over.Format = flags.format
	}
	return rc.Overlay(over), nil
}

func runRun(cmd *cobra.Command, flags *runFlags) error {
	rc, err := resolveRunConfig(cmd, flags)
	if err != nil {
		return err
	}
	cfg, err := rc.SimConfig()
	if err != nil {
		return err
	}
	mode, err := report.ParseMode(rc.Format)
	if err != nil {
		return err
	}
	g, err := loadGraph(rc.Graph)
	if err != nil {
		return err
	}

	logger := logging.New("run")
	logger.Debug("resolved run config",
		"trials", cfg.Trials, "workers", cfg.Workers, "start", cfg.Start,
		"outputs", cfg.Outputs.String(), "graph", g.Name(), "format", mode.String())

	observers := sim.MultiObserver{&sim.LogObserver{Logger: logger}}
	var rec *metrics.Recorder
	if flags.metrics {
		rec = metrics.NewRecorder()
		observers = append(observers, rec)
	}

	out := report.NewWriter(cmd.OutOrStdout(), mode)
	sched := sim.NewScheduler(g,
		sim.WithRawSink(out),
		sim.WithObserver(observers),
	)

	res, runErr := sched.Simulate(cmd.Context(), cfg)
	if runErr == nil {
		runErr = out.WriteResult(res)
	}
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("write output: %w", err)
	}
	if rec != nil {
		if err := rec.WriteText(cmd.ErrOrStderr()); err != nil {
			logger.Warn("write metrics", "error", err)
		}
	}
	return runErr
}
