package maze

// DefaultRooms is the six-room table the simulator walks unless a graph file
// is supplied.
func DefaultRooms() []Room {
	return []Room{
		{Name: "A", Doors: []string{"F", "D"}},
		{Name: "B", Doors: []string{"D"}},
		{Name: "C", Doors: []string{DefaultExit}},
		{Name: "D", Doors: []string{"A", "B", "C", "E"}},
		{Name: "E", Doors: []string{"D", "F"}},
		{Name: "F", Doors: []string{DefaultExit}},
	}
}

// Default builds the default graph.
func Default() *Graph {
	return MustNewGraph(DefaultRooms(), WithName("default"))
}
