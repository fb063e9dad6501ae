// Package mcp serves the simulator to MCP clients over stdio.
//
// Tools:
//   - simulate: run a Monte Carlo batch and return mean, stdev and counts
//   - list_rooms: describe the graph being walked
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomwalk/internal/logging"
	"roomwalk/internal/maze"
	"roomwalk/internal/report"
	"roomwalk/internal/sim"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultMaxTrials caps a single simulate call so one request cannot pin the
// server indefinitely.
var DefaultMaxTrials = 50_000_000

// Server wraps the MCP SDK server around a graph and a scheduler.
type Server struct {
	MCPServer *sdkmcp.Server
	MaxTrials int

	graph   *maze.Graph
	sources sim.SourceFactory
	workers int
}

// Option configures a Server.
type Option func(*Server)

// WithSources overrides per-worker random sources (tests use fixed seeds).
func WithSources(f sim.SourceFactory) Option {
	return func(s *Server) { s.sources = f }
}

// WithDefaultWorkers sets the worker count used when a call omits it.
func WithDefaultWorkers(n int) Option {
	return func(s *Server) { s.workers = n }
}

// NewServer creates an MCP server walking g.
func NewServer(g *maze.Graph, version string, opts ...Option) *Server {
	s := &Server{
		graph:     g,
		workers:   1,
		MaxTrials: DefaultMaxTrials,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "roomwalk", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "simulate",
		Description: "Run random walks from a start room until the exit and return the mean, sample standard deviation and per-length counts of walk lengths.",
	}, s.handleSimulate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_rooms",
		Description: "List the rooms of the graph, their doors in order and the exit label.",
	}, s.handleListRooms)
}

// --- Tool input/output types ---

type simulateInput struct {
	Trials  int      `json:"trials" jsonschema:"number of walks to run (positive)"`
	Workers int      `json:"workers,omitempty" jsonschema:"number of parallel workers (default: server setting)"`
	Start   string   `json:"start,omitempty" jsonschema:"starting room (default A)"`
	Outputs []string `json:"outputs,omitempty" jsonschema:"statistics to compute: mean, stdev, counts (default mean and stdev)"`
}

type bucket struct {
	Steps int    `json:"steps"`
	Count uint64 `json:"count"`
}

type simulateOutput struct {
	Trials    uint64   `json:"trials"`
	Workers   int      `json:"workers"`
	Start     string   `json:"start"`
	Mean      *float64 `json:"mean,omitempty"`
	Stdev     *float64 `json:"stdev,omitempty"`
	Counts    []bucket `json:"counts,omitempty"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

type listRoomsInput struct{}

type roomInfo struct {
	Name  string   `json:"name"`
	Doors []string `json:"doors"`
}

type listRoomsOutput struct {
	Name  string     `json:"name,omitempty"`
	Exit  string     `json:"exit"`
	Rooms []roomInfo `json:"rooms"`
}

// --- Tool handlers ---

func (s *Server) handleSimulate(ctx context.Context, _ *sdkmcp.CallToolRequest, input simulateInput) (*sdkmcp.CallToolResult, simulateOutput, error) {
	cfg, err := s.configFor(input)
	if err != nil {
		return nil, simulateOutput{}, err
	}

	logger := logging.New("mcp")
	logger.Info("simulate", "trials", cfg.Trials, "workers", cfg.Workers, "start", cfg.Start, "outputs", cfg.Outputs.String())

	opts := []sim.Option{sim.WithObserver(&sim.LogObserver{Logger: logger})}
	if s.sources != nil {
		opts = append(opts, sim.WithSources(s.sources))
	}
	res, err := sim.NewScheduler(s.graph, opts...).Simulate(ctx, cfg)
	if err != nil {
		return nil, simulateOutput{}, fmt.Errorf("simulate: %w", err)
	}
	sum, err := report.Summarize(res)
	if err != nil {
		return nil, simulateOutput{}, err
	}

	out := simulateOutput{
		Trials:    sum.Trials,
		Workers:   cfg.Workers,
		Start:     cfg.Start,
		Mean:      sum.Mean,
		Stdev:     sum.Stdev,
		ElapsedMS: res.Elapsed.Round(time.Millisecond).Milliseconds(),
	}
	for _, b := range sum.Counts {
		out.Counts = append(out.Counts, bucket{Steps: b.Steps, Count: b.Count})
	}
	return nil, out, nil
}

func (s *Server) configFor(input simulateInput) (sim.Config, error) {
	if input.Trials <= 0 {
		return sim.Config{}, fmt.Errorf("%w: trials must be positive, got %d", sim.ErrInvalidConfig, input.Trials)
	}
	if s.MaxTrials > 0 && input.Trials > s.MaxTrials {
		return sim.Config{}, fmt.Errorf("%w: trials %d exceeds the server limit of %d", sim.ErrInvalidConfig, input.Trials, s.MaxTrials)
	}
	if input.Workers < 0 || input.Workers > sim.MaxWorkers {
		return sim.Config{}, fmt.Errorf("%w: workers must be between 1 and %d, got %d", sim.ErrInvalidConfig, sim.MaxWorkers, input.Workers)
	}
	outputs := sim.DefaultOutputs
	if len(input.Outputs) > 0 {
		var err error
		if outputs, err = sim.ParseOutputs(input.Outputs...); err != nil {
			return sim.Config{}, err
		}
	}
	if outputs.Has(sim.OutputRaw) {
		return sim.Config{}, errors.New("raw output is only available from the command line")
	}
	cfg := sim.Config{
		Trials:  input.Trials,
		Workers: input.Workers,
		Start:   input.Start,
		Outputs: outputs,
	}
	if cfg.Workers == 0 {
		cfg.Workers = s.workers
	}
	if cfg.Start == "" {
		cfg.Start = "A"
	}
	return cfg, nil
}

func (s *Server) handleListRooms(_ context.Context, _ *sdkmcp.CallToolRequest, _ listRoomsInput) (*sdkmcp.CallToolResult, listRoomsOutput, error) {
	out := listRoomsOutput{Name: s.graph.Name(), Exit: s.graph.Exit()}
	for _, r := range s.graph.Rooms() {
		out.Rooms = append(out.Rooms, roomInfo{Name: r.Name, Doors: r.Doors})
	}
	return nil, out, nil
}
