// Package config loads run settings from a file and the environment.
// Command-line flags are layered on top by the CLI.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"roomwalk/internal/sim"
)

// WorkersEnv overrides the default worker count.
const WorkersEnv = "ROOMWALK_WORKERS"

const (
	DefaultTrials = 1000000
	DefaultStart  = "A"
	DefaultFormat = "plain"
)

// RunConfig is the file form of a run. Zero values mean "not set".
type RunConfig struct {
	Trials  int      `json:"trials,omitempty" yaml:"trials,omitempty"`
	Workers int      `json:"workers,omitempty" yaml:"workers,omitempty"`
	Start   string   `json:"start,omitempty" yaml:"start,omitempty"`
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Graph   string   `json:"graph,omitempty" yaml:"graph,omitempty"` // graph definition path, relative to the config file
	Format  string   `json:"format,omitempty" yaml:"format,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() RunConfig {
	return RunConfig{
		Trials:  DefaultTrials,
		Workers: DefaultWorkers(),
		Start:   DefaultStart,
		Outputs: []string{"mean", "stdev"},
		Format:  DefaultFormat,
	}
}

// DefaultWorkers returns $ROOMWALK_WORKERS when it holds a positive integer,
// else runtime.NumCPU().
func DefaultWorkers() int {
	if v := os.Getenv(WorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// Overlay returns c with every field that is set in over replaced.
func (c RunConfig) Overlay(over RunConfig) RunConfig {
	if over.Trials != 0 {
		c.Trials = over.Trials
	}
	if over.Workers != 0 {
		c.Workers = over.Workers
	}
	if over.Start != "" {
		c.Start = over.Start
	}
	if len(over.Outputs) > 0 {
		c.Outputs = over.Outputs
	}
	if over.Graph != "" {
		c.Graph = over.Graph
	}
	if over.Format != "" {
		c.Format = over.Format
	}
	return c
}

// SimConfig converts c to an engine config. Unlike the engine, a run asked
// for from the outside needs at least one trial.
func (c RunConfig) SimConfig() (sim.Config, error) {
	if c.Trials <= 0 {
		return sim.Config{}, fmt.Errorf("%w: trials must be positive, got %d", sim.ErrInvalidConfig, c.Trials)
	}
	if c.Workers <= 0 {
		return sim.Config{}, fmt.Errorf("%w: workers must be positive, got %d", sim.ErrInvalidConfig, c.Workers)
	}
	outputs, err := sim.ParseOutputs(c.Outputs...)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Trials:  c.Trials,
		Workers: c.Workers,
		Start:   c.Start,
		Outputs: outputs,
	}, nil
}
