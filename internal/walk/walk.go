// Package walk runs a single random walk through a maze.Graph.
package walk

import (
	"fmt"

	"roomwalk/internal/maze"
)

// Rand is the slice of *rand.Rand (math/rand/v2) a walk needs. The caller
// owns it; Walk only advances its state.
type Rand interface {
	IntN(n int) int
}

// Walk starts at room start and picks doors uniformly at random until the
// exit is reached. It returns the number of doors traversed, always >= 1.
// No step bound is enforced: a graph whose exit is unreachable from start
// never returns, which is why callers check maze.Graph.ExitReachableFrom
// up front.
func Walk(g *maze.Graph, start string, rng Rand) (int, error) {
	room, ok := g.Index(start)
	if !ok {
		return 0, fmt.Errorf("walk: %w: %q", maze.ErrUnknownRoom, start)
	}
	return Steps(g, room, rng), nil
}

// Steps is Walk on a pre-resolved room index.
func Steps(g *maze.Graph, room int, rng Rand) int {
	steps := 0
	for {
		steps++
		next := g.Target(room, rng.IntN(g.DoorCount(room)))
		if next == maze.ExitIndex {
			return steps
		}
		room = next
	}
}
