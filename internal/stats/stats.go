// Package stats accumulates walk outcomes per worker and merges them into
// run-wide totals.
//
// Only raw moments (count, sum, sum of squares) and an optional histogram are
// kept, so merging is commutative and associative and individual outcomes
// never need to be retained.
package stats

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"math/bits"
	"slices"
)

var (
	// ErrInsufficientSamples is returned when a statistic is requested over
	// too few trials: mean needs one, standard deviation needs two.
	ErrInsufficientSamples = errors.New("stats: insufficient samples")

	// ErrOverflow is returned when an accumulator would wrap around.
	ErrOverflow = errors.New("stats: accumulator overflow")
)

// Partial is one worker's accumulator. It is mutated only by the worker that
// owns it and read only after that worker has finished.
type Partial struct {
	Trials     uint64
	Sum        uint64
	SumSquares uint64
	Counts     map[int]uint64 // nil unless a histogram was requested
}

// NewPartial returns an empty accumulator, with a histogram when asked.
func NewPartial(histogram bool) *Partial {
	p := &Partial{}
	if histogram {
		p.Counts = make(map[int]uint64)
	}
	return p
}

// Add folds one outcome into the accumulator.
func (p *Partial) Add(steps int) error {
	if steps < 0 {
		return fmt.Errorf("stats: negative outcome %d", steps)
	}
	s := uint64(steps)
	hi, sq := bits.Mul64(s, s)
	if hi != 0 {
		return fmt.Errorf("%w: square of %d", ErrOverflow, steps)
	}
	sum, c1 := bits.Add64(p.Sum, s, 0)
	sumSq, c2 := bits.Add64(p.SumSquares, sq, 0)
	if c1 != 0 || c2 != 0 {
		return fmt.Errorf("%w after %d trials", ErrOverflow, p.Trials)
	}
	p.Trials++
	p.Sum = sum
	p.SumSquares = sumSq
	if p.Counts != nil {
		p.Counts[steps]++
	}
	return nil
}

// Merge adds o's totals into p. Histogram buckets missing on either side
// count as zero. If p has no histogram, o's buckets are dropped.
func (p *Partial) Merge(o *Partial) error {
	trials, c0 := bits.Add64(p.Trials, o.Trials, 0)
	sum, c1 := bits.Add64(p.Sum, o.Sum, 0)
	sumSq, c2 := bits.Add64(p.SumSquares, o.SumSquares, 0)
	if c0|c1|c2 != 0 {
		return fmt.Errorf("%w while merging", ErrOverflow)
	}
	p.Trials, p.Sum, p.SumSquares = trials, sum, sumSq
	if p.Counts != nil {
		for steps, c := range o.Counts {
			p.Counts[steps] += c
		}
	}
	return nil
}

// Aggregate is the run-wide combination of every Partial. It is built once
// after all workers complete and is read-only afterwards.
type Aggregate struct {
	Trials     uint64
	Sum        uint64
	SumSquares uint64
	counts     map[int]uint64
}

// Combine merges partials in any order. The histogram is kept when any
// partial carries one.
func Combine(parts []*Partial) (*Aggregate, error) {
	histogram := false
	for _, p := range parts {
		if p != nil && p.Counts != nil {
			histogram = true
			break
		}
	}
	total := NewPartial(histogram)
	for i, p := range parts {
		if p == nil {
			continue
		}
		if err := total.Merge(p); err != nil {
			return nil, fmt.Errorf("partial %d: %w", i, err)
		}
	}
	return &Aggregate{
		Trials:     total.Trials,
		Sum:        total.Sum,
		SumSquares: total.SumSquares,
		counts:     total.Counts,
	}, nil
}

// Mean returns Sum/Trials.
func (a *Aggregate) Mean() (float64, error) {
	if a.Trials == 0 {
		return 0, fmt.Errorf("%w: mean needs at least 1 trial", ErrInsufficientSamples)
	}
	return float64(a.Sum) / float64(a.Trials), nil
}

// Variance returns the Bessel-corrected sample variance computed from the
// raw moments as (Σx² − (Σx)²/n)/(n−1). Cancellation can leave a tiny
// negative value; it is clamped to zero.
func (a *Aggregate) Variance() (float64, error) {
	if a.Trials < 2 {
		return 0, fmt.Errorf("%w: standard deviation needs at least 2 trials, have %d", ErrInsufficientSamples, a.Trials)
	}
	n := float64(a.Trials)
	sum := float64(a.Sum)
	v := (float64(a.SumSquares) - sum*(sum/n)) / (n - 1)
	if v < 0 {
		v = 0
	}
	return v, nil
}

// Stdev returns the square root of Variance.
func (a *Aggregate) Stdev() (float64, error) {
	v, err := a.Variance()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Bucket is one row of a dense histogram.
type Bucket struct {
	Steps int
	Count uint64
}

// HasHistogram reports whether a histogram was collected.
func (a *Aggregate) HasHistogram() bool {
	return a.counts != nil
}

// Count returns how many trials took exactly steps doors.
func (a *Aggregate) Count(steps int) uint64 {
	return a.counts[steps]
}

// Histogram returns one bucket per step count from the smallest to the
// largest observed outcome inclusive, with zero-count buckets for gaps.
// It is empty when no histogram was collected or no trials ran.
func (a *Aggregate) Histogram() []Bucket {
	if len(a.counts) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(a.counts))
	lo, hi := keys[0], keys[len(keys)-1]
	out := make([]Bucket, 0, hi-lo+1)
	for s := lo; s <= hi; s++ {
		out = append(out, Bucket{Steps: s, Count: a.counts[s]})
	}
	return out
}
