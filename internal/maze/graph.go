// Package maze holds the room graph walked by the simulator: rooms connected
// by one-way doors, one of which leads to the exit.
//
// A Graph is immutable once built and is shared read-only by every worker.
package maze

import (
	"fmt"
	"slices"
)

// DefaultExit is the exit sentinel label used when no other is configured.
const DefaultExit = "EXIT"

// ExitIndex is the compiled door target meaning "the walk is over".
const ExitIndex = -1

// Room is a node of the graph with its ordered list of door targets.
type Room struct {
	Name  string
	Doors []string
}

// Graph is a validated set of rooms. Door targets are compiled to room
// indices so walks do no map lookups on the hot path.
type Graph struct {
	name  string
	exit  string
	rooms []Room
	index map[string]int
	doors [][]int // room index -> target indices, ExitIndex for the exit
}

// GraphOption configures a Graph during construction.
type GraphOption func(*Graph)

// WithExit sets the exit sentinel label. Defaults to DefaultExit.
func WithExit(label string) GraphOption {
	return func(g *Graph) {
		g.exit = label
	}
}

// WithName labels the graph for listings and logs.
func WithName(name string) GraphOption {
	return func(g *Graph) {
		g.name = name
	}
}

// NewGraph validates rooms and returns an immutable Graph. It fails when the
// room list is empty, a room is unnamed or duplicated, a room has no doors,
// or a door targets something that is neither a room nor the exit.
func NewGraph(rooms []Room, opts ...GraphOption) (*Graph, error) {
	g := &Graph{
		exit:  DefaultExit,
		index: make(map[string]int, len(rooms)),
	}
	for _, opt := range opts {
		opt(g)
	}

	if len(rooms) == 0 {
		return nil, ErrEmptyGraph
	}

	g.rooms = make([]Room, len(rooms))
	for i, r := range rooms {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: room #%d", ErrUnnamedRoom, i)
		}
		if r.Name == g.exit {
			return nil, fmt.Errorf("%w: room %q shadows the exit", ErrDuplicateRoom, r.Name)
		}
		if _, dup := g.index[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoom, r.Name)
		}
		if len(r.Doors) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoDoors, r.Name)
		}
		g.index[r.Name] = i
		g.rooms[i] = Room{Name: r.Name, Doors: slices.Clone(r.Doors)}
	}

	g.doors = make([][]int, len(g.rooms))
	for i, r := range g.rooms {
		targets := make([]int, len(r.Doors))
		for j, to := range r.Doors {
			if to == g.exit {
				targets[j] = ExitIndex
				continue
			}
			idx, ok := g.index[to]
			if !ok {
				return nil, fmt.Errorf("%w: room %q has a door to %q", ErrUnknownRoom, r.Name, to)
			}
			targets[j] = idx
		}
		g.doors[i] = targets
	}

	return g, nil
}

// MustNewGraph is NewGraph for static tables; it panics on error.
func MustNewGraph(rooms []Room, opts ...GraphOption) *Graph {
	g, err := NewGraph(rooms, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the graph's label, empty unless set by WithName.
func (g *Graph) Name() string { return g.name }

// Exit returns the reserved exit label.
func (g *Graph) Exit() string { return g.exit }

// Len returns the number of rooms, not counting the exit.
func (g *Graph) Len() int { return len(g.rooms) }

// Rooms returns a copy of the rooms in definition order.
func (g *Graph) Rooms() []Room {
	out := make([]Room, len(g.rooms))
	for i, r := range g.rooms {
		out[i] = Room{Name: r.Name, Doors: slices.Clone(r.Doors)}
	}
	return out
}

// HasRoom reports whether name is a defined room.
func (g *Graph) HasRoom(name string) bool {
	_, ok := g.index[name]
	return ok
}

// IsExit reports whether id is the exit sentinel.
func (g *Graph) IsExit(id string) bool {
	return id == g.exit
}

// DoorsOf returns the door targets of a room in definition order.
func (g *Graph) DoorsOf(room string) ([]string, error) {
	idx, ok := g.index[room]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoom, room)
	}
	return slices.Clone(g.rooms[idx].Doors), nil
}

// Index returns the compiled index of a room.
func (g *Graph) Index(room string) (int, bool) {
	idx, ok := g.index[room]
	return idx, ok
}

// DoorCount returns how many doors leave the room at index i.
func (g *Graph) DoorCount(i int) int {
	return len(g.doors[i])
}

// Target returns the room index behind door d of room i, or ExitIndex.
func (g *Graph) Target(i, d int) int {
	return g.doors[i][d]
}

// ExitReachableFrom checks that every room reachable from start can still
// reach the exit. Walks from start then terminate with probability 1.
func (g *Graph) ExitReachableFrom(start string) error {
	from, ok := g.index[start]
	if !ok {
		return fmt.Errorf("%w: start room %q", ErrUnknownRoom, start)
	}

	// Reverse adjacency, seeded with every room that has an exit door.
	reverse := make([][]int, len(g.rooms))
	canExit := make([]bool, len(g.rooms))
	var queue []int
	for i, targets := range g.doors {
		for _, t := range targets {
			if t == ExitIndex {
				if !canExit[i] {
					canExit[i] = true
					queue = append(queue, i)
				}
				continue
			}
			reverse[t] = append(reverse[t], i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, prev := range reverse[cur] {
			if !canExit[prev] {
				canExit[prev] = true
				queue = append(queue, prev)
			}
		}
	}

	seen := make([]bool, len(g.rooms))
	seen[from] = true
	queue = append(queue[:0], from)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !canExit[cur] {
			return fmt.Errorf("%w: room %q (reached from %q) never leads to %s",
				ErrExitUnreachable, g.rooms[cur].Name, start, g.exit)
		}
		for _, t := range g.doors[cur] {
			if t != ExitIndex && !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}
	return nil
}
