// Package sim is the parallel trial engine: it partitions a run over a fixed
// set of workers, runs them concurrently and joins their partial statistics.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"roomwalk/internal/maze"
	"roomwalk/internal/stats"
)

// Scheduler launches one worker per configured slot and waits for all of
// them. The graph is the only state shared between workers.
type Scheduler struct {
	graph    *maze.Graph
	sources  SourceFactory
	raw      RawSink
	observer Observer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSources overrides how workers obtain their random source. Defaults
// to CryptoSeeded(nil).
func WithSources(f SourceFactory) Option {
	return func(s *Scheduler) {
		s.sources = f
	}
}

// WithRawSink sets where raw outcomes go when OutputRaw is requested.
func WithRawSink(sink RawSink) Option {
	return func(s *Scheduler) {
		s.raw = sink
	}
}

// WithObserver attaches an observer for run and worker events.
func WithObserver(obs Observer) Option {
	return func(s *Scheduler) {
		s.observer = obs
	}
}

// NewScheduler returns a Scheduler bound to g.
func NewScheduler(g *maze.Graph, opts ...Option) *Scheduler {
	s := &Scheduler{graph: g}
	for _, opt := range opts {
		opt(s)
	}
	if s.sources == nil {
		s.sources = CryptoSeeded(nil)
	}
	return s
}

// Graph returns the graph the scheduler walks.
func (s *Scheduler) Graph() *maze.Graph { return s.graph }

// Run validates cfg, runs every worker to completion and returns their
// partial statistics in worker order. Slots with no trials get an empty
// partial without starting a goroutine. If any worker fails the whole run
// fails with ErrWorkerFailed and no partials are returned; if ctx is done
// first, Run returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, cfg Config) ([]*stats.Partial, error) {
	if err := cfg.Validate(s.graph); err != nil {
		return nil, err
	}
	var raw RawSink
	if cfg.Outputs.Has(OutputRaw) {
		if s.raw == nil {
			return nil, fmt.Errorf("%w: raw output requested without a raw sink", ErrInvalidConfig)
		}
		raw = s.raw
	}
	start, _ := s.graph.Index(cfg.Start)
	counts := Partition(cfg.Trials, cfg.Workers)
	histogram := cfg.Outputs.Histogram()

	began := time.Now()
	emitEvent(s.observer, RunEvent{Type: EventRunStart, Worker: -1, Trials: cfg.Trials, Start: cfg.Start})

	partials := make([]*stats.Partial, len(counts))
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range counts {
		if n == 0 {
			// Only the trailing slots are idle; they need no goroutine.
			partials[i] = stats.NewPartial(histogram)
			continue
		}
		g.Go(func() error {
			workerStart := time.Now()
			emitEvent(s.observer, RunEvent{Type: EventWorkerStart, Worker: i, Trials: n})

			p, err := s.runWorker(gctx, i, n, start, histogram, raw)
			if err != nil {
				if ctx.Err() == nil {
					err = fmt.Errorf("%w: worker %d: %w", ErrWorkerFailed, i, err)
				}
				emitEvent(s.observer, RunEvent{Type: EventWorkerError, Worker: i, Trials: n, Elapsed: time.Since(workerStart), Error: err})
				return err
			}
			partials[i] = p
			emitEvent(s.observer, RunEvent{Type: EventWorkerDone, Worker: i, Trials: n, Elapsed: time.Since(workerStart), Partial: p})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Cancellation by the caller is reported as ctx.Err().
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		emitEvent(s.observer, RunEvent{Type: EventRunError, Worker: -1, Trials: cfg.Trials, Start: cfg.Start, Elapsed: time.Since(began), Error: err})
		return nil, err
	}

	emitEvent(s.observer, RunEvent{Type: EventRunComplete, Worker: -1, Trials: cfg.Trials, Start: cfg.Start, Elapsed: time.Since(began)})
	return partials, nil
}

func (s *Scheduler) runWorker(ctx context.Context, id, trials, start int, histogram bool, raw RawSink) (*stats.Partial, error) {
	src, err := s.sources(id)
	if err != nil {
		return nil, err
	}
	w := &Worker{
		ID:        id,
		Trials:    trials,
		Graph:     s.graph,
		Start:     start,
		Rand:      rand.New(src),
		Histogram: histogram,
		Raw:       raw,
	}
	return w.Run(ctx)
}

// Result is a finished run.
type Result struct {
	Config    Config
	Partials  []*stats.Partial
	Aggregate *stats.Aggregate
	Elapsed   time.Duration
}

// Simulate runs cfg and aggregates the partials.
func (s *Scheduler) Simulate(ctx context.Context, cfg Config) (*Result, error) {
	began := time.Now()
	partials, err := s.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	agg, err := stats.Combine(partials)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return &Result{
		Config:    cfg,
		Partials:  partials,
		Aggregate: agg,
		Elapsed:   time.Since(began),
	}, nil
}
