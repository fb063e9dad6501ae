package main

import (
	"roomwalk/internal/maze"
)

// loadGraph returns the graph at path, or the built-in six-room graph when
// path is empty.
func loadGraph(path string) (*maze.Graph, error) {
	if path == "" {
		return maze.Default(), nil
	}
	return maze.LoadGraph(path)
}
