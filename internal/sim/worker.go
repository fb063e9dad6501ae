package sim

import (
	"context"
	"fmt"

	"roomwalk/internal/maze"
	"roomwalk/internal/stats"
	"roomwalk/internal/walk"
)

// RawSink receives every outcome as soon as it is produced. All workers
// share one sink, so EmitRaw is called concurrently and must write each
// value as one uninterrupted line.
type RawSink interface {
	EmitRaw(steps int) error
}

// ctxCheckEvery is how many trials a worker runs between context checks.
const ctxCheckEvery = 4096

// Worker runs its share of trials against a shared read-only graph with a
// random source nobody else touches.
type Worker struct {
	ID        int
	Trials    int
	Graph     *maze.Graph
	Start     int // compiled room index
	Rand      walk.Rand
	Histogram bool
	Raw       RawSink // nil unless raw output was requested
}

// Run executes the assigned trials and returns the finished accumulator.
// It stops early only when ctx is cancelled, which happens when a sibling
// worker has already failed.
func (w *Worker) Run(ctx context.Context) (*stats.Partial, error) {
	p := stats.NewPartial(w.Histogram)
	for i := 0; i < w.Trials; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		steps := walk.Steps(w.Graph, w.Start, w.Rand)
		if w.Raw != nil {
			if err := w.Raw.EmitRaw(steps); err != nil {
				return nil, fmt.Errorf("emit raw outcome: %w", err)
			}
		}
		if err := p.Add(steps); err != nil {
			return nil, err
		}
	}
	return p, nil
}
