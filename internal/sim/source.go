package sim

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/rand/v2"
)

// SourceFactory hands each worker its own random source. It is called once
// per worker, from that worker's goroutine.
type SourceFactory func(worker int) (rand.Source, error)

// CryptoSeeded returns a factory that seeds a ChaCha8 source per worker from
// 32 bytes of r. Seeds are independent and not derivable from the worker
// index. A nil r means crypto/rand.
func CryptoSeeded(r io.Reader) SourceFactory {
	if r == nil {
		r = crand.Reader
	}
	return func(worker int) (rand.Source, error) {
		var seed [32]byte
		if _, err := io.ReadFull(r, seed[:]); err != nil {
			return nil, fmt.Errorf("seed worker %d: %w", worker, err)
		}
		return rand.NewChaCha8(seed), nil
	}
}

// FixedSeeds returns a factory of PCG sources seeded from (base, worker).
// Runs become reproducible; used by tests and benchmarks.
func FixedSeeds(base uint64) SourceFactory {
	return func(worker int) (rand.Source, error) {
		return rand.NewPCG(base, uint64(worker)), nil
	}
}
