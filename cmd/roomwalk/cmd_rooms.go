package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomwalk/internal/report"
)

type roomsFlags struct {
	graph  string
	format string
	def    bool
}

func newRoomsCmd() *cobra.Command {
	var flags roomsFlags
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Show the rooms, their doors and the exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := loadGraph(flags.graph)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.def {
				data, err := g.Def().Encode()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			mode, err := report.ParseMode(flags.format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, report.Rooms(g, mode))
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.graph, "graph", "", "Graph definition file (YAML or JSON); default is the built-in six-room maze")
	f.StringVar(&flags.format, "format", "table", "Output format (plain, table, markdown)")
	f.BoolVar(&flags.def, "definition", false, "Print the graph as a YAML definition that --graph accepts")
	return cmd
}
