// Package metrics exposes run counters through a Prometheus registry. The
// Recorder is a sim.Observer; the CLI dumps the registry in text exposition
// format to stderr when asked.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"roomwalk/internal/sim"
)

// Recorder turns run events into Prometheus metrics on a private registry.
type Recorder struct {
	registry       *prometheus.Registry
	runs           *prometheus.CounterVec
	trials         prometheus.Counter
	steps          prometheus.Counter
	workerFailures prometheus.Counter
	workerDuration prometheus.Histogram
	runDuration    prometheus.Histogram
}

// NewRecorder registers the roomwalk metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomwalk_runs_total",
			Help: "Simulation runs by result",
		}, []string{"result"}),
		trials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomwalk_trials_total",
			Help: "Walks completed by workers that finished",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomwalk_steps_total",
			Help: "Doors traversed across all completed walks",
		}),
		workerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomwalk_worker_failures_total",
			Help: "Workers that aborted",
		}),
		workerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomwalk_worker_duration_seconds",
			Help:    "Wall time per worker",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomwalk_run_duration_seconds",
			Help:    "Wall time per run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	r.registry.MustRegister(r.runs, r.trials, r.steps, r.workerFailures, r.workerDuration, r.runDuration)
	return r
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// OnEvent implements sim.Observer.
func (r *Recorder) OnEvent(e sim.RunEvent) {
	switch e.Type {
	case sim.EventWorkerDone:
		if e.Partial != nil {
			r.trials.Add(float64(e.Partial.Trials))
			r.steps.Add(float64(e.Partial.Sum))
		}
		r.workerDuration.Observe(e.Elapsed.Seconds())
	case sim.EventWorkerError:
		r.workerFailures.Inc()
	case sim.EventRunError:
		r.runs.WithLabelValues("failed").Inc()
	case sim.EventRunComplete:
		r.runs.WithLabelValues("ok").Inc()
		r.runDuration.Observe(e.Elapsed.Seconds())
	}
}

// WriteText writes every metric family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
