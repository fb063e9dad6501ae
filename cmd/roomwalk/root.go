// roomwalk estimates how many doors a random walker passes through before
// leaving a maze of rooms, by running many walks in parallel.
//
// Usage:
//
//	roomwalk run [-n trials] [-j workers] [-s start] [-o raw,mean,stdev,counts]
//	roomwalk rooms [--graph file]
//	roomwalk serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roomwalk/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "roomwalk",
		Short: "Monte Carlo random walks through a maze of rooms",
		Long: `roomwalk runs many independent random walks from a start room until the
walker finds the exit, splitting the trials across parallel workers, and
reports the mean and standard deviation of the walk length.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(flags.logLevel)
			if err != nil {
				return err
			}
			logging.Init(level, flags.logFormat, cmd.ErrOrStderr())
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newRoomsCmd())
	root.AddCommand(newServeCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "roomwalk:", err)
		os.Exit(1)
	}
}
