package maze

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GraphDef is the file form of a graph. YAML is a superset of JSON, so the
// same parser accepts both.
//
//	name: default
//	exit: EXIT
//	rooms:
//	  - name: A
//	    doors: [F, D]
type GraphDef struct {
	Name  string    `yaml:"name,omitempty" json:"name,omitempty"`
	Exit  string    `yaml:"exit,omitempty" json:"exit,omitempty"`
	Rooms []RoomDef `yaml:"rooms" json:"rooms"`
}

// RoomDef declares one room and its doors.
type RoomDef struct {
	Name  string   `yaml:"name" json:"name"`
	Doors []string `yaml:"doors,flow" json:"doors"`
}

// ParseGraphDef parses a YAML or JSON graph definition.
func ParseGraphDef(data []byte) (*GraphDef, error) {
	var def GraphDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse graph definition: %w", err)
	}
	return &def, nil
}

// LoadGraphDef reads and parses a graph definition file.
func LoadGraphDef(path string) (*GraphDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph definition: %w", err)
	}
	return ParseGraphDef(data)
}

// LoadGraph reads a graph definition file and builds the Graph.
func LoadGraph(path string) (*Graph, error) {
	def, err := LoadGraphDef(path)
	if err != nil {
		return nil, err
	}
	g, err := def.Build()
	if err != nil {
		return nil, fmt.Errorf("graph %s: %w", path, err)
	}
	return g, nil
}

// Build validates the definition and constructs the Graph.
func (def *GraphDef) Build() (*Graph, error) {
	rooms := make([]Room, len(def.Rooms))
	for i, r := range def.Rooms {
		rooms[i] = Room{Name: r.Name, Doors: r.Doors}
	}
	opts := []GraphOption{WithName(def.Name)}
	if def.Exit != "" {
		opts = append(opts, WithExit(def.Exit))
	}
	return NewGraph(rooms, opts...)
}

// Encode serializes the definition back to YAML.
func (def *GraphDef) Encode() ([]byte, error) {
	return yaml.Marshal(def)
}

// Def returns the file form of g.
func (g *Graph) Def() *GraphDef {
	def := &GraphDef{Name: g.name, Exit: g.exit, Rooms: make([]RoomDef, len(g.rooms))}
	for i, r := range g.Rooms() {
		def.Rooms[i] = RoomDef{Name: r.Name, Doors: r.Doors}
	}
	return def
}
