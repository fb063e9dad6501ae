package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"roomwalk/internal/config"
	"roomwalk/internal/logging"
	mcpserver "roomwalk/internal/mcp"
)

type serveFlags struct {
	graph     string
	workers   int
	maxTrials int
}

func newServeCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing the simulate and list_rooms
tools.

The server watches its parent process and exits when the client that
spawned it goes away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := loadGraph(flags.graph)
			if err != nil {
				return err
			}
			srv := mcpserver.NewServer(g, version, mcpserver.WithDefaultWorkers(flags.workers))
			srv.MaxTrials = flags.maxTrials

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			mcpserver.WatchParent(ctx, 2*time.Second, cancel)

			logging.New("mcp").Info("starting roomwalk MCP server over stdio", "graph", g.Name(), "workers", flags.workers)
			return srv.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.graph, "graph", "", "Graph definition file (YAML or JSON); default is the built-in six-room maze")
	f.IntVar(&flags.workers, "workers", config.DefaultWorkers(), "Workers used when a simulate call does not specify them")
	f.IntVar(&flags.maxTrials, "max-trials", mcpserver.DefaultMaxTrials, "Largest trial count a single simulate call may request (0 = unlimited)")
	return cmd
}
