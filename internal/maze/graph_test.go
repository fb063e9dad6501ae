package maze

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_Topology(t *testing.T) {
	g := Default()
	if g.Len() != 6 {
		t.Fatalf("expected 6 rooms, got %d", g.Len())
	}
	if g.Exit() != DefaultExit {
		t.Errorf("exit = %q, want %q", g.Exit(), DefaultExit)
	}

	doors, err := g.DoorsOf("D")
	if err != nil {
		t.Fatalf("DoorsOf(D): %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "E"}, doors); diff != "" {
		t.Errorf("DoorsOf(D) mismatch:\n%s", diff)
	}

	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		if err := g.ExitReachableFrom(name); err != nil {
			t.Errorf("ExitReachableFrom(%s): %v", name, err)
		}
	}
}

func TestGraph_IsExit(t *testing.T) {
	g := MustNewGraph([]Room{{Name: "x", Doors: []string{"out"}}}, WithExit("out"))
	if !g.IsExit("out") {
		t.Error("expected out to be the exit")
	}
	if g.IsExit("x") || g.IsExit(DefaultExit) {
		t.Error("only the configured label is the exit")
	}
}

func TestGraph_CompiledTargets(t *testing.T) {
	g := Default()
	a, _ := g.Index("A")
	f, _ := g.Index("F")
	d, _ := g.Index("D")

	if g.DoorCount(a) != 2 {
		t.Fatalf("DoorCount(A) = %d, want 2", g.DoorCount(a))
	}
	if g.Target(a, 0) != f || g.Target(a, 1) != d {
		t.Errorf("A targets = %d,%d want %d,%d", g.Target(a, 0), g.Target(a, 1), f, d)
	}
	if g.Target(f, 0) != ExitIndex {
		t.Errorf("F door should compile to ExitIndex, got %d", g.Target(f, 0))
	}
}

func TestGraph_RoomsAreCopies(t *testing.T) {
	src := []Room{{Name: "a", Doors: []string{DefaultExit}}}
	g := MustNewGraph(src)

	src[0].Doors[0] = "elsewhere"
	rooms := g.Rooms()
	rooms[0].Doors[0] = "mutated"

	doors, _ := g.DoorsOf("a")
	if doors[0] != DefaultExit {
		t.Errorf("graph was mutated through a shared slice: %v", doors)
	}
}

func TestNewGraph_Errors(t *testing.T) {
	cases := []struct {
		name  string
		rooms []Room
		want  error
	}{
		{"empty", nil, ErrEmptyGraph},
		{"unnamed", []Room{{Doors: []string{DefaultExit}}}, ErrUnnamedRoom},
		{"duplicate", []Room{
			{Name: "a", Doors: []string{DefaultExit}},
			{Name: "a", Doors: []string{DefaultExit}},
		}, ErrDuplicateRoom},
		{"shadows exit", []Room{{Name: DefaultExit, Doors: []string{DefaultExit}}}, ErrDuplicateRoom},
		{"no doors", []Room{{Name: "a"}}, ErrNoDoors},
		{"unknown target", []Room{{Name: "a", Doors: []string{"b"}}}, ErrUnknownRoom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGraph(tc.rooms)
			if !errors.Is(err, tc.want) {
				t.Errorf("NewGraph error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestGraph_DoorsOfUnknown(t *testing.T) {
	_, err := Default().DoorsOf("Z")
	if !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("expected ErrUnknownRoom, got %v", err)
	}
}

func TestExitReachableFrom(t *testing.T) {
	g := MustNewGraph([]Room{
		{Name: "start", Doors: []string{"loop", DefaultExit}},
		{Name: "loop", Doors: []string{"loop"}},
		{Name: "island", Doors: []string{"island"}},
		{Name: "safe", Doors: []string{DefaultExit}},
	})

	if err := g.ExitReachableFrom("safe"); err != nil {
		t.Errorf("safe: unexpected error %v", err)
	}
	if err := g.ExitReachableFrom("start"); !errors.Is(err, ErrExitUnreachable) {
		t.Errorf("start: expected ErrExitUnreachable, got %v", err)
	}
	if err := g.ExitReachableFrom("island"); !errors.Is(err, ErrExitUnreachable) {
		t.Errorf("island: expected ErrExitUnreachable, got %v", err)
	}
	if err := g.ExitReachableFrom("nowhere"); !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("nowhere: expected ErrUnknownRoom, got %v", err)
	}
}
