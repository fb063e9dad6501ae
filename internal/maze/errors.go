package maze

import "errors"

var (
	// ErrEmptyGraph is returned when a graph is constructed without rooms.
	ErrEmptyGraph = errors.New("maze: graph has no rooms")

	// ErrUnnamedRoom is returned when a room has an empty name.
	ErrUnnamedRoom = errors.New("maze: room name is required")

	// ErrDuplicateRoom is returned when two rooms share a name, or a room
	// reuses the exit label.
	ErrDuplicateRoom = errors.New("maze: duplicate room")

	// ErrNoDoors is returned when a room has no outgoing door, which would
	// leave a walk with nowhere to go.
	ErrNoDoors = errors.New("maze: room has no doors")

	// ErrUnknownRoom is returned when a door target or a start room is neither
	// a defined room nor the exit.
	ErrUnknownRoom = errors.New("maze: unknown room")

	// ErrExitUnreachable is returned when some room reachable from the start
	// cannot reach the exit, so a walk could run forever.
	ErrExitUnreachable = errors.New("maze: exit unreachable")
)
