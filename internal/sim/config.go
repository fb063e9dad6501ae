package sim

import (
	"errors"
	"fmt"
	"strings"

	"roomwalk/internal/maze"
	"roomwalk/internal/stats"
)

// Output is one kind of report line a run can produce.
type Output uint8

const (
	OutputRaw Output = 1 << iota
	OutputMean
	OutputStdev
	OutputCounts
)

var outputNames = []struct {
	out  Output
	name string
}{
	{OutputRaw, "raw"},
	{OutputMean, "mean"},
	{OutputStdev, "stdev"},
	{OutputCounts, "counts"},
}

// Outputs is a set of requested outputs.
type Outputs Output

// DefaultOutputs is mean and stdev, the two summary lines.
const DefaultOutputs = Outputs(OutputMean | OutputStdev)

// Has reports whether o is in the set.
func (s Outputs) Has(o Output) bool { return Output(s)&o != 0 }

// With returns the set plus o.
func (s Outputs) With(o Output) Outputs { return s | Outputs(o) }

// Empty reports whether nothing was requested.
func (s Outputs) Empty() bool { return s == 0 }

// Histogram reports whether workers must keep per-outcome counts.
func (s Outputs) Histogram() bool { return s.Has(OutputCounts) }

// Names lists the set in canonical order.
func (s Outputs) Names() []string {
	var names []string
	for _, o := range outputNames {
		if s.Has(o.out) {
			names = append(names, o.name)
		}
	}
	return names
}

func (s Outputs) String() string { return strings.Join(s.Names(), ",") }

// ParseOutputs accepts names from {raw, mean, stdev, counts}; each value may
// itself be a comma-separated list.
func ParseOutputs(values ...string) (Outputs, error) {
	var set Outputs
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			found := false
			for _, o := range outputNames {
				if o.name == name {
					set = set.With(o.out)
					found = true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("%w: unknown output %q (want raw, mean, stdev or counts)", ErrInvalidConfig, name)
			}
		}
	}
	return set, nil
}

// MaxWorkers bounds Config.Workers.
const MaxWorkers = 1 << 16

// Config describes one simulation run.
type Config struct {
	Trials  int
	Workers int
	Start   string
	Outputs Outputs
}

// Validate checks cfg against g. Zero trials are accepted when no requested
// statistic needs them. Requesting mean over zero trials, or stdev over fewer
// than two, fails here with stats.ErrInsufficientSamples so nothing runs and
// nothing is printed.
func (cfg Config) Validate(g *maze.Graph) error {
	var errs []error
	if cfg.Trials < 0 {
		errs = append(errs, fmt.Errorf("trials must not be negative, got %d", cfg.Trials))
	} else {
		if cfg.Outputs.Has(OutputMean) && cfg.Trials < 1 {
			errs = append(errs, fmt.Errorf("%w: mean needs at least 1 trial", stats.ErrInsufficientSamples))
		}
		if cfg.Outputs.Has(OutputStdev) && cfg.Trials < 2 {
			errs = append(errs, fmt.Errorf("%w: standard deviation needs at least 2 trials, got %d", stats.ErrInsufficientSamples, cfg.Trials))
		}
	}
	if cfg.Workers < 1 || cfg.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, cfg.Workers))
	}
	if cfg.Outputs.Empty() {
		errs = append(errs, errors.New("at least one output is required"))
	}
	if g == nil {
		errs = append(errs, errors.New("graph is required"))
	} else if err := g.ExitReachableFrom(cfg.Start); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
